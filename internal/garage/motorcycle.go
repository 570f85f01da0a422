package garage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/models"
)

var (
	ErrMissingMotorcycleField = fmt.Errorf("%w: name, make and model are required", models.ErrInvalidInput)
	ErrNegativeMileage        = fmt.Errorf("%w: mileage must not be negative", models.ErrInvalidInput)
	ErrInvalidYear            = fmt.Errorf("%w: year is out of range", models.ErrInvalidInput)
	ErrUnknownPreset          = fmt.Errorf("%w: unknown preset", models.ErrInvalidInput)
)

// MinYear is the oldest model year accepted at registration.
const MinYear = 1900

// MotorcycleDraft is the input for registering a motorcycle.
type MotorcycleDraft struct {
	Name           string `json:"name"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           *int   `json:"year,omitempty"`
	Preset         string `json:"preset,omitempty"`
	CurrentMileage int    `json:"currentMileage"`
	ImageURI       string `json:"imageUri,omitempty"`
}

// Summary is a motorcycle with the figures shown on the garage overview.
type Summary struct {
	models.Motorcycle
	DueCount        int  `json:"dueCount"`
	NextDueDistance *int `json:"nextDueDistance,omitempty"`
}

func summarize(m models.Motorcycle) Summary {
	sum := Summary{
		Motorcycle: m,
		DueCount:   maintenance.DueCount(m.CurrentMileage, m.Records),
	}
	if d, ok := maintenance.NextDueDistance(m.CurrentMileage, m.Records); ok {
		sum.NextDueDistance = &d
	}
	return sum
}

func (s *Service) validateMotorcycle(name, maker, model string, year *int, preset string, mileage int) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(maker) == "" || strings.TrimSpace(model) == "" {
		return ErrMissingMotorcycleField
	}
	if mileage < 0 {
		return ErrNegativeMileage
	}
	if year != nil && (*year < MinYear || *year > s.now().Year()+1) {
		return ErrInvalidYear
	}
	if !maintenance.IsValidPreset(preset) {
		return ErrUnknownPreset
	}
	return nil
}

// AddMotorcycle registers a motorcycle with an empty schedule. The preset
// defaults to scooter.
func (s *Service) AddMotorcycle(ctx context.Context, ownerID string, d MotorcycleDraft) (_ *models.Motorcycle, err error) {
	defer s.observe("add_motorcycle", ownerID, &err)

	preset := strings.TrimSpace(d.Preset)
	if preset == "" {
		preset = maintenance.PresetScooter
	}
	if err := s.validateMotorcycle(d.Name, d.Make, d.Model, d.Year, preset, d.CurrentMileage); err != nil {
		return nil, err
	}

	m := models.Motorcycle{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(d.Name),
		Make:           strings.TrimSpace(d.Make),
		Model:          strings.TrimSpace(d.Model),
		Year:           d.Year,
		Preset:         preset,
		CurrentMileage: d.CurrentMileage,
		Records:        []models.MaintenanceRecord{},
		ServiceLog:     []models.ServiceLogEntry{},
		ImageURI:       strings.TrimSpace(d.ImageURI),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.motorcycles.InsertMotorcycle(ctx, m); err != nil {
		return nil, wrapStorage("insert motorcycle", err)
	}
	s.logger.WithFields(log.Fields{
		"owner":      ownerID,
		"motorcycle": m.ID,
		"preset":     preset,
	}).Info("Motorcycle registered")
	return &m, nil
}

// ListMotorcycles returns the owner's motorcycles with their due figures.
func (s *Service) ListMotorcycles(ctx context.Context, ownerID string) (_ []Summary, err error) {
	defer s.observe("list_motorcycles", ownerID, &err)

	all, err := s.motorcycles.FindMotorcycles(ctx, ownerID)
	if err != nil {
		return nil, wrapStorage("list motorcycles", err)
	}
	out := make([]Summary, 0, len(all))
	for _, m := range all {
		out = append(out, summarize(m))
	}
	return out, nil
}

// GetMotorcycle returns one motorcycle.
func (s *Service) GetMotorcycle(ctx context.Context, ownerID, id string) (_ *models.Motorcycle, err error) {
	defer s.observe("get_motorcycle", ownerID, &err)
	return s.load(ctx, ownerID, id)
}

// DeleteMotorcycle removes a motorcycle with its records and service log.
func (s *Service) DeleteMotorcycle(ctx context.Context, ownerID, id string) (err error) {
	defer s.observe("delete_motorcycle", ownerID, &err)

	if err := s.motorcycles.DeleteMotorcycle(ctx, ownerID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return err
		}
		return wrapStorage("delete motorcycle", err)
	}
	s.logger.WithFields(log.Fields{"owner": ownerID, "motorcycle": id}).Info("Motorcycle deleted")
	return nil
}

// UpdateMileage sets the odometer reading. A lower reading than the current
// one is refused with ErrMileageRegression unless confirm is set. Records
// that come within the rider's reminder distance are published afterwards.
func (s *Service) UpdateMileage(ctx context.Context, ownerID, id string, mileage int, confirm bool) (_ *models.Motorcycle, err error) {
	defer s.observe("update_mileage", ownerID, &err)

	if mileage < 0 {
		return nil, ErrNegativeMileage
	}
	m, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if mileage < m.CurrentMileage && !confirm {
		return nil, ErrMileageRegression
	}
	m.CurrentMileage = mileage
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.publishReminders(ctx, m)
	return m, nil
}
