package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/models"
)

// bikeCatalog maps presets to plausible make/model pairs.
var bikeCatalog = map[string][][2]string{
	"scooter": {{"Honda", "PCX 160"}, {"Yamaha", "NMAX"}, {"Vespa", "GTS 300"}},
	"sport":   {{"Yamaha", "R15"}, {"Kawasaki", "Ninja 400"}, {"Honda", "CBR650R"}},
	"cruiser": {{"Harley-Davidson", "Street Bob"}, {"Honda", "Rebel 500"}, {"Royal Enfield", "Meteor 350"}},
}

// seedTypes are recorded as freshly done when a motorcycle joins the fleet.
var seedTypes = map[string][]string{
	"scooter": {"Oil Change", "Carbon Cleaning", "CVT Cleaning"},
	"sport":   {"Oil Change", "Chain Cleaning", "Oil Filter"},
	"cruiser": {"Oil Change", "Belt Inspection", "Oil Filter"},
}

var presetKeys = []string{"scooter", "sport", "cruiser"}

// Liters burned per km by preset.
var consumption = map[string]float64{
	"scooter": 1.0 / 42,
	"sport":   1.0 / 24,
	"cruiser": 1.0 / 19,
}

const fillUpEvery = 250 // km between simulated fill-ups

// apiClient talks to the motomaint API with an optional bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Body)
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// authenticate registers the simulator account, falling back to login when
// it already exists, and keeps the issued token.
func (c *apiClient) authenticate(ctx context.Context, username, password string) error {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", models.RegisterRequest{
		Username: username,
		Email:    username + "@simulator.local",
		Password: password,
	}, &resp)
	if apiErr, ok := err.(*apiError); ok && apiErr.Status == http.StatusConflict {
		err = c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
			Username: username,
			Password: password,
		}, &resp)
	}
	if err != nil {
		return fmt.Errorf("authenticate %s: %w", username, err)
	}
	c.token = resp.Token
	return nil
}

// bikeState is one simulated motorcycle.
type bikeState struct {
	ID       string
	Name     string
	Preset   string
	Odometer float64 // km, fractional
	Reported int     // last mileage sent to the API
	SpeedKmh float64
	LastFill float64 // odometer at the last fill-up

	serviced map[string]bool // record ids already redone
}

func createMotorcycle(ctx context.Context, c *apiClient, rng *rand.Rand, n int) (*bikeState, error) {
	preset := presetKeys[rng.Intn(len(presetKeys))]
	choices := bikeCatalog[preset]
	pick := choices[rng.Intn(len(choices))]
	year := 2018 + rng.Intn(7)
	mileage := 1000 + rng.Intn(20000)

	var m models.Motorcycle
	err := c.do(ctx, http.MethodPost, "/motorcycles", map[string]interface{}{
		"name":           fmt.Sprintf("Sim %d", n),
		"make":           pick[0],
		"model":          pick[1],
		"year":           year,
		"preset":         preset,
		"currentMileage": mileage,
	}, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to create motorcycle: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	for _, typ := range seedTypes[preset] {
		err := c.do(ctx, http.MethodPost, "/motorcycles/"+m.ID+"/records", map[string]interface{}{
			"type":        typ,
			"lastMileage": mileage,
			"lastDate":    today,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", typ, err)
		}
	}

	log.WithFields(log.Fields{
		"motorcycle_id": m.ID,
		"preset":        preset,
		"make":          pick[0],
		"model":         pick[1],
		"mileage":       mileage,
	}).Info("Created motorcycle")

	return &bikeState{
		ID:       m.ID,
		Name:     m.Name,
		Preset:   preset,
		Odometer: float64(mileage),
		Reported: mileage,
		SpeedKmh: 30 + rng.Float64()*40,
		LastFill: float64(mileage),
		serviced: map[string]bool{},
	}, nil
}

// advance rides the motorcycle for the given number of simulated hours and
// returns the distance covered.
func (b *bikeState) advance(rng *rand.Rand, hours float64) float64 {
	b.SpeedKmh += (rng.Float64()*2 - 1) * 5
	b.SpeedKmh = math.Max(15, math.Min(110, b.SpeedKmh))
	km := b.SpeedKmh * hours
	b.Odometer += km
	return km
}

// step advances one tick and reports the new mileage. Due items are
// serviced on the spot and a fill-up is logged every fillUpEvery km.
func step(ctx context.Context, c *apiClient, rng *rand.Rand, b *bikeState, hours float64) error {
	b.advance(rng, hours)
	mileage := int(b.Odometer)
	if mileage <= b.Reported {
		return nil
	}

	var m models.Motorcycle
	if err := c.do(ctx, http.MethodPut, "/motorcycles/"+b.ID+"/mileage", map[string]interface{}{"mileage": mileage}, &m); err != nil {
		return fmt.Errorf("failed to update mileage: %w", err)
	}
	b.Reported = mileage

	for _, r := range m.Records {
		if !r.NextDue || b.serviced[r.ID] {
			continue
		}
		if err := service(ctx, c, b, r, mileage); err != nil {
			return err
		}
		b.serviced[r.ID] = true
	}

	if b.Odometer-b.LastFill >= fillUpEvery {
		if err := fillUp(ctx, c, rng, b); err != nil {
			log.WithError(err).WithField("motorcycle_id", b.ID).Warn("Fill-up rejected")
		}
	}
	return nil
}

// service records the due item as done at mileage and logs the visit.
func service(ctx context.Context, c *apiClient, b *bikeState, r models.MaintenanceRecord, mileage int) error {
	today := time.Now().Format("2006-01-02")
	if err := c.do(ctx, http.MethodPost, "/motorcycles/"+b.ID+"/records", map[string]interface{}{
		"type":        r.Type,
		"lastMileage": mileage,
		"lastDate":    today,
	}, nil); err != nil {
		return fmt.Errorf("failed to record %s: %w", r.Type, err)
	}
	if err := c.do(ctx, http.MethodPost, "/motorcycles/"+b.ID+"/service-log", map[string]interface{}{
		"date":      today,
		"procedure": r.Type,
		"odometer":  mileage,
		"notes":     "simulated workshop visit",
	}, nil); err != nil {
		return fmt.Errorf("failed to log %s: %w", r.Type, err)
	}
	log.WithFields(log.Fields{
		"motorcycle_id": b.ID,
		"type":          r.Type,
		"mileage":       mileage,
		"overdue_km":    mileage - r.NextMileage,
	}).Info("Serviced motorcycle")
	return nil
}

func fillUp(ctx context.Context, c *apiClient, rng *rand.Rand, b *bikeState) error {
	distance := b.Odometer - b.LastFill
	liters := distance * consumption[b.Preset] * (0.9 + rng.Float64()*0.2)
	var res struct {
		KMPL    float64 `json:"kmpl"`
		Rating  string  `json:"rating"`
		Display string  `json:"display"`
	}
	err := c.do(ctx, http.MethodPost, "/fuel/efficiency", map[string]interface{}{
		"firstOdometer":  strconv.FormatFloat(b.LastFill, 'f', 1, 64),
		"secondOdometer": strconv.FormatFloat(b.Odometer, 'f', 1, 64),
		"fuelVolume":     strconv.FormatFloat(liters, 'f', 2, 64),
	}, &res)
	b.LastFill = b.Odometer
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"motorcycle_id": b.ID,
		"efficiency":    res.Display,
		"rating":        res.Rating,
	}).Info("Filled up")
	return nil
}

func simulate(ctx context.Context, c *apiClient, seed int64, b *bikeState, interval time.Duration, hoursPerTick float64) {
	rng := rand.New(rand.NewSource(seed))
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := step(ctx, c, rng, b, hoursPerTick); err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("motorcycle_id", b.ID).Error("Simulation step failed")
			}
		}
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	apiURL := envString("API_BASE_URL", "http://localhost:8080/api")
	fleetSize := envInt("FLEET_SIZE", 5)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2)) * time.Second
	// Simulated riding minutes per tick.
	hoursPerTick := float64(envInt("SIM_MINUTES_PER_TICK", 30)) / 60

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newAPIClient(apiURL, os.Getenv("SIM_AUTH_TOKEN"))
	if client.token == "" {
		username := envString("SIM_USERNAME", "simulator")
		password := envString("SIM_PASSWORD", "simulator-password")
		if err := client.authenticate(ctx, username, password); err != nil {
			log.WithError(err).Fatal("Failed to authenticate")
		}
	}

	log.WithFields(log.Fields{
		"fleet_size":     fleetSize,
		"api_url":        apiURL,
		"interval":       interval,
		"hours_per_tick": hoursPerTick,
	}).Info("Starting fleet simulation")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	bikes := make([]*bikeState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		b, err := createMotorcycle(ctx, client, rng, i+1)
		if err != nil {
			log.WithError(err).Error("Failed to create motorcycle")
			continue
		}
		bikes = append(bikes, b)
	}

	log.WithField("created_motorcycles", len(bikes)).Info("Motorcycle creation completed")
	if len(bikes) == 0 {
		log.Error("No motorcycles created. Ensure the API is reachable. Exiting.")
		return
	}

	var wg sync.WaitGroup
	for _, b := range bikes {
		wg.Add(1)
		seed := rng.Int63()
		go func(b *bikeState) {
			defer wg.Done()
			simulate(ctx, client, seed, b, interval, hoursPerTick)
		}(b)
	}

	log.Info("Ride simulation started")
	wg.Wait()
	log.Info("Simulation stopped")
}
