package main

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/motomaint/internal/models"
)

type recordedCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

// fakeAPI records every call and answers from a per-route responder.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string]func(w http.ResponseWriter, body map[string]interface{})
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	api := &fakeAPI{responses: map[string]func(http.ResponseWriter, map[string]interface{}){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
		key := r.Method + " " + r.URL.Path
		api.mu.Lock()
		api.calls = append(api.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
		respond := api.responses[key]
		api.mu.Unlock()
		if respond == nil {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
			return
		}
		respond(w, body)
	}))
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) on(key string, fn func(w http.ResponseWriter, body map[string]interface{})) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[key] = fn
}

func (a *fakeAPI) paths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, c.Method+" "+c.Path)
	}
	return out
}

func (a *fakeAPI) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestAuthenticate_FallsBackToLogin(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("POST /auth/register", func(w http.ResponseWriter, _ map[string]interface{}) {
		http.Error(w, "Username already exists", http.StatusConflict)
	})
	api.on("POST /auth/login", func(w http.ResponseWriter, body map[string]interface{}) {
		assert.Equal(t, "sim", body["username"])
		writeJSON(w, http.StatusOK, models.LoginResponse{Token: "tok-123"})
	})

	c := newAPIClient(srv.URL, "")
	require.NoError(t, c.authenticate(context.Background(), "sim", "simulator-password"))
	assert.Equal(t, "tok-123", c.token)
	assert.Equal(t, []string{"POST /auth/register", "POST /auth/login"}, api.paths())
}

func TestAuthenticate_Failure(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("POST /auth/register", func(w http.ResponseWriter, _ map[string]interface{}) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := newAPIClient(srv.URL, "")
	err := c.authenticate(context.Background(), "sim", "simulator-password")
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Body)
}

func TestCreateMotorcycle_SeedsRecords(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("POST /motorcycles", func(w http.ResponseWriter, body map[string]interface{}) {
		writeJSON(w, http.StatusCreated, models.Motorcycle{ID: "bike-1", Name: body["name"].(string)})
	})

	c := newAPIClient(srv.URL, "tok")
	b, err := createMotorcycle(context.Background(), c, rand.New(rand.NewSource(1)), 7)
	require.NoError(t, err)

	assert.Equal(t, "bike-1", b.ID)
	assert.Equal(t, "Sim 7", b.Name)
	assert.Contains(t, presetKeys, b.Preset)
	assert.Equal(t, float64(b.Reported), b.Odometer)
	assert.GreaterOrEqual(t, b.Reported, 1000)

	paths := api.paths()
	require.Len(t, paths, 1+len(seedTypes[b.Preset]))
	assert.Equal(t, "POST /motorcycles", paths[0])
	for _, p := range paths[1:] {
		assert.Equal(t, "POST /motorcycles/bike-1/records", p)
	}
	for _, call := range api.calls {
		assert.Equal(t, "Bearer tok", call.Auth)
	}
}

func newBike() *bikeState {
	return &bikeState{
		ID: "bike-1", Name: "Sim 1", Preset: "scooter",
		Odometer: 1000, Reported: 1000, SpeedKmh: 40, LastFill: 1000,
		serviced: map[string]bool{},
	}
}

func TestStep_NoMovementSendsNothing(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newAPIClient(srv.URL, "tok")
	b := newBike()

	require.NoError(t, step(context.Background(), c, rand.New(rand.NewSource(1)), b, 0))
	assert.Empty(t, api.paths())
}

func TestStep_ServicesDueRecordsOnce(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("PUT /motorcycles/bike-1/mileage", func(w http.ResponseWriter, body map[string]interface{}) {
		mileage := int(body["mileage"].(float64))
		writeJSON(w, http.StatusOK, models.Motorcycle{
			ID:             "bike-1",
			CurrentMileage: mileage,
			Records: []models.MaintenanceRecord{
				{ID: "r-oil", Type: "Oil Change", NextMileage: 1010, NextDue: true},
				{ID: "r-cvt", Type: "CVT Cleaning", NextMileage: 13000, NextDue: false},
			},
		})
	})

	c := newAPIClient(srv.URL, "tok")
	b := newBike()
	rng := rand.New(rand.NewSource(1))

	require.NoError(t, step(context.Background(), c, rng, b, 1))
	assert.Greater(t, b.Reported, 1000)
	assert.Equal(t, []string{
		"PUT /motorcycles/bike-1/mileage",
		"POST /motorcycles/bike-1/records",
		"POST /motorcycles/bike-1/service-log",
	}, api.paths())
	assert.True(t, b.serviced["r-oil"])

	api.reset()
	require.NoError(t, step(context.Background(), c, rng, b, 1))
	assert.Equal(t, []string{"PUT /motorcycles/bike-1/mileage"}, api.paths())
}

func TestStep_FillUp(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("PUT /motorcycles/bike-1/mileage", func(w http.ResponseWriter, body map[string]interface{}) {
		writeJSON(w, http.StatusOK, models.Motorcycle{ID: "bike-1"})
	})
	var fuelBody map[string]interface{}
	api.on("POST /fuel/efficiency", func(w http.ResponseWriter, body map[string]interface{}) {
		fuelBody = body
		writeJSON(w, http.StatusOK, map[string]interface{}{"kmpl": 42.0, "rating": "Excellent", "display": "42.00 km/L"})
	})

	c := newAPIClient(srv.URL, "tok")
	b := newBike()
	b.Odometer = 1249.5
	b.Reported = 1249

	require.NoError(t, step(context.Background(), c, rand.New(rand.NewSource(1)), b, 1))

	assert.Equal(t, []string{"PUT /motorcycles/bike-1/mileage", "POST /fuel/efficiency"}, api.paths())
	require.NotNil(t, fuelBody)
	assert.Equal(t, "1000.0", fuelBody["firstOdometer"])
	assert.Equal(t, b.Odometer, b.LastFill)
}

func TestStep_MileageError(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on("PUT /motorcycles/bike-1/mileage", func(w http.ResponseWriter, _ map[string]interface{}) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	c := newAPIClient(srv.URL, "tok")
	b := newBike()
	err := step(context.Background(), c, rand.New(rand.NewSource(1)), b, 1)
	assert.Error(t, err)
	assert.Equal(t, 1000, b.Reported)
}

func TestAdvance_ClampsSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := newBike()
	b.SpeedKmh = 500
	km := b.advance(rng, 0.5)
	assert.Equal(t, 110.0, b.SpeedKmh)
	assert.Equal(t, 55.0, km)
	assert.Equal(t, 1055.0, b.Odometer)

	b.SpeedKmh = 0
	b.advance(rng, 0.5)
	assert.Equal(t, 15.0, b.SpeedKmh)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SIM_TEST_INT", "12")
	t.Setenv("SIM_TEST_BAD", "nope")
	assert.Equal(t, 12, envInt("SIM_TEST_INT", 3))
	assert.Equal(t, 3, envInt("SIM_TEST_BAD", 3))
	assert.Equal(t, 3, envInt("SIM_TEST_UNSET", 3))
	assert.Equal(t, "fallback", envString("SIM_TEST_UNSET", "fallback"))
}
