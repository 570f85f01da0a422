package handlers

import (
	"net/http"

	"github.com/ukydev/motomaint/internal/fuel"
	"github.com/ukydev/motomaint/internal/maintenance"
)

// EfficiencyObserver counts fuel calculations.
type EfficiencyObserver interface {
	ObserveEfficiency(rating string, err error)
}

// ToolsHandler serves the stateless calculators and reference data.
type ToolsHandler struct {
	observer EfficiencyObserver
}

// NewToolsHandler creates a tools handler. observer may be nil.
func NewToolsHandler(observer EfficiencyObserver) *ToolsHandler {
	return &ToolsHandler{observer: observer}
}

type efficiencyRequest struct {
	FirstOdometer  NumberInput `json:"firstOdometer"`
	SecondOdometer NumberInput `json:"secondOdometer"`
	FuelVolume     NumberInput `json:"fuelVolume"`
}

type efficiencyResponse struct {
	fuel.Result
	Display string `json:"display"`
}

// FuelEfficiency handles POST /api/fuel/efficiency. Implausible inputs are
// reported as 422 so clients can tell them apart from malformed ones.
func (h *ToolsHandler) FuelEfficiency(w http.ResponseWriter, r *http.Request) {
	var req efficiencyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := fuel.Compute(string(req.FirstOdometer), string(req.SecondOdometer), string(req.FuelVolume))
	if h.observer != nil {
		h.observer.ObserveEfficiency(string(res.Rating), err)
	}
	if err != nil {
		if fuel.IsWarning(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, efficiencyResponse{Result: res, Display: res.Display()})
}

// Presets handles GET /api/presets
func (h *ToolsHandler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, maintenance.Presets())
}
