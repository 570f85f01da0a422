package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/motomaint/internal/config"
	"github.com/ukydev/motomaint/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		Server:  config.ServerConfig{Port: "0"},
		Storage: config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "api.db")},
		JWT:     config.JWTConfig{Secret: "router-test-secret"},
	}
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		srv.Close()
		app.Close(context.Background())
	})
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body interface{}) (*http.Response, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func register(t *testing.T, srv *httptest.Server, username string, role models.Role) *client {
	t.Helper()
	c := &client{t: t, base: srv.URL}
	resp, body := c.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	c.token = login.Token
	return c
}

func TestRouter_PublicAndProtected(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	resp, body := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, _ = anon.do(http.MethodGet, "/api/motorcycles", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	anon.token = "garbage"
	resp, _ = anon.do(http.MethodGet, "/api/motorcycles", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RiderFlow(t *testing.T) {
	srv := newTestServer(t)
	rider := register(t, srv, "rider1", "")

	resp, body := rider.do(http.MethodPost, "/api/motorcycles", map[string]interface{}{
		"name": "Daily", "make": "Honda", "model": "PCX", "currentMileage": 1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var bike models.Motorcycle
	require.NoError(t, json.Unmarshal(body, &bike))

	resp, body = rider.do(http.MethodPost, "/api/motorcycles/"+bike.ID+"/records", map[string]interface{}{
		"type": "Oil Change", "lastMileage": 1000, "lastDate": "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = rider.do(http.MethodPut, "/api/motorcycles/"+bike.ID+"/mileage", map[string]interface{}{"mileage": 2600})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = rider.do(http.MethodGet, "/api/motorcycles", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []struct {
		ID       string `json:"id"`
		DueCount int    `json:"dueCount"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].DueCount)

	resp, _ = rider.do(http.MethodPatch, "/api/motorcycles/"+bike.ID, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = rider.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	other := register(t, srv, "rider2", models.RoleRider)
	resp, _ = other.do(http.MethodGet, "/api/motorcycles/"+bike.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ViewerIsReadOnly(t *testing.T) {
	srv := newTestServer(t)
	viewer := register(t, srv, "watcher", models.RoleViewer)

	resp, _ := viewer.do(http.MethodGet, "/api/motorcycles", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = viewer.do(http.MethodPost, "/api/motorcycles", map[string]interface{}{
		"name": "Daily", "make": "Honda", "model": "PCX", "currentMileage": 1000,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = viewer.do(http.MethodGet, "/api/garage", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = viewer.do(http.MethodPost, "/api/fuel/efficiency", map[string]interface{}{
		"firstOdometer": 100, "secondOdometer": 400, "fuelVolume": 10,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)
	rider := register(t, srv, "rider1", "")
	rider.do(http.MethodGet, "/api/presets", nil)

	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `motomaint_http_requests_total{method="GET",route="GET /api/presets",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRouter_LoginRateLimit(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}
	creds := models.LoginRequest{Username: "nobody", Password: "wrong-password"}

	for i := 0; i < authRateLimit; i++ {
		resp, _ := anon.do(http.MethodPost, "/api/auth/login", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := anon.do(http.MethodPost, "/api/auth/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}
