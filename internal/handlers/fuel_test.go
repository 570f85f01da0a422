package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/motomaint/internal/fuel"
	"github.com/ukydev/motomaint/internal/maintenance"
)

type efficiencyCall struct {
	rating string
	err    error
}

type fakeEfficiencyObserver struct {
	calls []efficiencyCall
}

func (f *fakeEfficiencyObserver) ObserveEfficiency(rating string, err error) {
	f.calls = append(f.calls, efficiencyCall{rating: rating, err: err})
}

func TestToolsHandler_FuelEfficiency(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantErr    error
	}{
		{
			name:       "numbers",
			body:       map[string]interface{}{"firstOdometer": 1000, "secondOdometer": 1300, "fuelVolume": 10},
			wantStatus: http.StatusOK,
		},
		{
			name:       "formatted strings",
			body:       map[string]interface{}{"firstOdometer": "1,000", "secondOdometer": "1,300", "fuelVolume": "10"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing field",
			body:       map[string]interface{}{"firstOdometer": 1000, "fuelVolume": 10},
			wantStatus: http.StatusBadRequest,
			wantErr:    fuel.ErrMissingField,
		},
		{
			name:       "odometer order",
			body:       map[string]interface{}{"firstOdometer": 1300, "secondOdometer": 1000, "fuelVolume": 10},
			wantStatus: http.StatusBadRequest,
			wantErr:    fuel.ErrInvalidOdometerOrder,
		},
		{
			name:       "distance too short",
			body:       map[string]interface{}{"firstOdometer": 1000, "secondOdometer": 1005, "fuelVolume": 1},
			wantStatus: http.StatusUnprocessableEntity,
			wantErr:    fuel.ErrDistanceTooShort,
		},
		{
			name:       "too much fuel",
			body:       map[string]interface{}{"firstOdometer": 1000, "secondOdometer": 1300, "fuelVolume": 200},
			wantStatus: http.StatusUnprocessableEntity,
			wantErr:    fuel.ErrUnrealisticFuel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &fakeEfficiencyObserver{}
			h := NewToolsHandler(observer)

			w := serve(t, h.FuelEfficiency, call{
				method: http.MethodPost, target: "/api/fuel/efficiency", body: tt.body,
			})

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			require.Len(t, observer.calls, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, observer.calls[0].err, tt.wantErr)
				return
			}
			assert.NoError(t, observer.calls[0].err)

			res := decode[efficiencyResponse](t, w)
			assert.Equal(t, 300.0, res.Distance)
			assert.Equal(t, 30.0, res.KMPL)
			assert.Equal(t, fuel.RatingVeryGood, res.Rating)
			assert.Equal(t, "30.00 km/L", res.Display)
			assert.Equal(t, string(fuel.RatingVeryGood), observer.calls[0].rating)
		})
	}
}

func TestToolsHandler_NilObserver(t *testing.T) {
	h := NewToolsHandler(nil)
	w := serve(t, h.FuelEfficiency, call{
		method: http.MethodPost, target: "/api/fuel/efficiency",
		body: map[string]interface{}{"firstOdometer": 0, "secondOdometer": 450, "fuelVolume": 10},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fuel.RatingExcellent, decode[efficiencyResponse](t, w).Rating)
}

func TestToolsHandler_Presets(t *testing.T) {
	h := NewToolsHandler(nil)
	w := serve(t, h.Presets, call{method: http.MethodGet, target: "/api/presets"})

	require.Equal(t, http.StatusOK, w.Code)
	presets := decode[[]maintenance.Preset](t, w)
	assert.Len(t, presets, len(maintenance.Presets()))
	for _, p := range presets {
		assert.NotEmpty(t, p.Intervals, p.Key)
	}
}
