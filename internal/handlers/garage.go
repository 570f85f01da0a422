package handlers

import (
	"context"
	"net/http"

	"github.com/ukydev/motomaint/internal/export"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/theme"
)

// GarageService is the set of garage operations the API exposes.
type GarageService interface {
	ListMotorcycles(ctx context.Context, ownerID string) ([]garage.Summary, error)
	AddMotorcycle(ctx context.Context, ownerID string, d garage.MotorcycleDraft) (*models.Motorcycle, error)
	GetMotorcycle(ctx context.Context, ownerID, id string) (*models.Motorcycle, error)
	DeleteMotorcycle(ctx context.Context, ownerID, id string) error
	UpdateMileage(ctx context.Context, ownerID, id string, mileage int, confirm bool) (*models.Motorcycle, error)
	AddRecord(ctx context.Context, ownerID, motorcycleID string, d maintenance.Draft) (*models.MaintenanceRecord, error)
	DueReport(ctx context.Context, ownerID, motorcycleID string) (garage.DueReport, error)
	ServiceLog(ctx context.Context, ownerID, motorcycleID string) ([]models.ServiceLogEntry, error)
	AddServiceLogEntry(ctx context.Context, ownerID, motorcycleID string, d garage.ServiceLogDraft) (*models.ServiceLogEntry, error)
	UpdateServiceLogEntry(ctx context.Context, ownerID, motorcycleID, entryID string, p garage.ServiceLogPatch) (*models.ServiceLogEntry, error)
	Settings(ctx context.Context, ownerID string) (models.AppSettings, error)
	SaveSettings(ctx context.Context, ownerID string, settings models.AppSettings) error
	Theme(ctx context.Context, ownerID string) (theme.Theme, error)
	ToggleTheme(ctx context.Context, ownerID string) (theme.Theme, error)
	Export(ctx context.Context, ownerID string) (models.Garage, error)
	Import(ctx context.Context, ownerID string, g models.Garage) error
	ClearAll(ctx context.Context, ownerID string) error
	Archive(ctx context.Context, ownerID string) (export.Archive, error)
}

// GarageHandler serves motorcycles, records, the service log, settings and
// the garage document.
type GarageHandler struct {
	service GarageService
}

// NewGarageHandler creates a garage handler.
func NewGarageHandler(service GarageService) *GarageHandler {
	return &GarageHandler{service: service}
}

// ListMotorcycles handles GET /api/motorcycles
func (h *GarageHandler) ListMotorcycles(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListMotorcycles(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type createMotorcycleRequest struct {
	Name           string      `json:"name"`
	Make           string      `json:"make"`
	Model          string      `json:"model"`
	Year           *int        `json:"year,omitempty"`
	Preset         string      `json:"preset,omitempty"`
	CurrentMileage NumberInput `json:"currentMileage"`
	ImageURI       string      `json:"imageUri,omitempty"`
}

// CreateMotorcycle handles POST /api/motorcycles
func (h *GarageHandler) CreateMotorcycle(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createMotorcycleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mileage, err := req.CurrentMileage.Mileage()
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.service.AddMotorcycle(r.Context(), owner, garage.MotorcycleDraft{
		Name:           req.Name,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Preset:         req.Preset,
		CurrentMileage: mileage,
		ImageURI:       req.ImageURI,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// GetMotorcycle handles GET /api/motorcycles/{id}
func (h *GarageHandler) GetMotorcycle(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	m, err := h.service.GetMotorcycle(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMotorcycle handles DELETE /api/motorcycles/{id}
func (h *GarageHandler) DeleteMotorcycle(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteMotorcycle(r.Context(), owner, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mileageRequest struct {
	Mileage NumberInput `json:"mileage"`
	Confirm bool        `json:"confirm"`
}

// UpdateMileage handles PUT /api/motorcycles/{id}/mileage
func (h *GarageHandler) UpdateMileage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req mileageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mileage, err := req.Mileage.Mileage()
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.service.UpdateMileage(r.Context(), owner, r.PathValue("id"), mileage, req.Confirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ListRecords handles GET /api/motorcycles/{id}/records
func (h *GarageHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	report, err := h.service.DueReport(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type createRecordRequest struct {
	Type        string      `json:"type"`
	CustomType  string      `json:"customType,omitempty"`
	LastMileage NumberInput `json:"lastMileage"`
	LastDate    string      `json:"lastDate"`
	PartNumber  string      `json:"partNumber,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

// CreateRecord handles POST /api/motorcycles/{id}/records
func (h *GarageHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createRecordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// An unparsable mileage is left for Draft.Validate to report in order.
	lastMileage, err := req.LastMileage.Mileage()
	if err != nil {
		lastMileage = -1
	}
	rec, err := h.service.AddRecord(r.Context(), owner, r.PathValue("id"), maintenance.Draft{
		Type:        req.Type,
		CustomType:  req.CustomType,
		LastMileage: lastMileage,
		LastDate:    req.LastDate,
		PartNumber:  req.PartNumber,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ServiceLog handles GET /api/motorcycles/{id}/service-log
func (h *GarageHandler) ServiceLog(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ServiceLog(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddServiceLogEntry handles POST /api/motorcycles/{id}/service-log
func (h *GarageHandler) AddServiceLogEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req garage.ServiceLogDraft
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.service.AddServiceLogEntry(r.Context(), owner, r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateServiceLogEntry handles PATCH /api/motorcycles/{id}/service-log/{entryID}
func (h *GarageHandler) UpdateServiceLogEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req garage.ServiceLogPatch
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.service.UpdateServiceLogEntry(r.Context(), owner, r.PathValue("id"), r.PathValue("entryID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetSettings handles GET /api/settings
func (h *GarageHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	settings, err := h.service.Settings(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /api/settings. Omitted fields keep their stored
// values.
func (h *GarageHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	settings, err := h.service.Settings(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	if !decodeBody(w, r, &settings) {
		return
	}
	if err := h.service.SaveSettings(r.Context(), owner, settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetTheme handles GET /api/theme
func (h *GarageHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	th, err := h.service.Theme(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// ToggleTheme handles POST /api/theme/toggle
func (h *GarageHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	th, err := h.service.ToggleTheme(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// ExportGarage handles GET /api/garage
func (h *GarageHandler) ExportGarage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Export(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="garage.json"`)
	if err := export.WriteDocument(w, doc); err != nil {
		writeError(w, err)
	}
}

// ImportGarage handles PUT /api/garage, replacing the whole garage.
func (h *GarageHandler) ImportGarage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	doc, err := export.ReadDocument(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Import(r.Context(), owner, doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"motorcycles": len(doc.Motorcycles)})
}

// ClearGarage handles DELETE /api/garage
func (h *GarageHandler) ClearGarage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.service.ClearAll(r.Context(), owner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveGarage handles POST /api/garage/archive
func (h *GarageHandler) ArchiveGarage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	archive, err := h.service.Archive(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, archive)
}
