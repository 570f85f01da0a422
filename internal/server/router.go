// Package server assembles the HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/ukydev/motomaint/internal/auth"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/handlers"
	"github.com/ukydev/motomaint/internal/metrics"
	"github.com/ukydev/motomaint/internal/middleware"
	"github.com/ukydev/motomaint/internal/models"
)

// Login and registration attempts allowed per client IP per minute.
const authRateLimit = 20

// Deps are the collaborators the router serves.
type Deps struct {
	Auth    *auth.Service
	Users   db.UserCollection
	Garage  handlers.GarageService
	Metrics *metrics.Collector
}

type router struct {
	mux     *http.ServeMux
	metrics *metrics.Collector
	authMW  *middleware.AuthMiddleware
}

func (rt *router) handle(pattern string, h http.HandlerFunc, wrap ...func(http.Handler) http.Handler) {
	var handler http.Handler = h
	for i := len(wrap) - 1; i >= 0; i-- {
		handler = wrap[i](handler)
	}
	rt.mux.Handle(pattern, middleware.Instrument(rt.metrics, pattern, handler))
}

func (rt *router) can(action string) func(http.Handler) http.Handler {
	return rt.authMW.RequirePermission(action)
}

// NewRouter registers every route and wraps the mux with recovery, request
// logging and authentication. Only login, registration, /health and
// /metrics are reachable without a token.
func NewRouter(d Deps) http.Handler {
	rt := &router{
		mux:     http.NewServeMux(),
		metrics: d.Metrics,
		authMW:  middleware.NewAuthMiddleware(d.Auth),
	}
	limiter := middleware.NewRateLimitMiddleware(authRateLimit, time.Minute)

	authH := handlers.NewAuthHandler(d.Auth, d.Users)
	garageH := handlers.NewGarageHandler(d.Garage)
	toolsH := handlers.NewToolsHandler(d.Metrics)

	view := rt.can(models.ActionViewGarage)
	manage := rt.can(models.ActionManageGarage)
	exportDoc := rt.can(models.ActionExportGarage)

	rt.mux.HandleFunc("GET /health", health)
	rt.mux.Handle("GET /metrics", d.Metrics.Handler())

	rt.handle("POST /api/auth/login", authH.Login, limiter.RateLimit)
	rt.handle("POST /api/auth/register", authH.Register, limiter.RateLimit)
	rt.handle("GET /api/auth/profile", authH.GetProfile)
	rt.handle("PUT /api/auth/profile", authH.UpdateProfile)
	rt.handle("POST /api/auth/change-password", authH.ChangePassword)

	rt.handle("GET /api/users", authH.ListUsers, rt.can(models.ActionManageUsers))
	rt.handle("DELETE /api/users/{id}", authH.DeleteUser, rt.can(models.ActionDeleteUser))

	rt.handle("GET /api/motorcycles", garageH.ListMotorcycles, view)
	rt.handle("POST /api/motorcycles", garageH.CreateMotorcycle, manage)
	rt.handle("GET /api/motorcycles/{id}", garageH.GetMotorcycle, view)
	rt.handle("DELETE /api/motorcycles/{id}", garageH.DeleteMotorcycle, manage)
	rt.handle("PUT /api/motorcycles/{id}/mileage", garageH.UpdateMileage, manage)
	rt.handle("GET /api/motorcycles/{id}/records", garageH.ListRecords, view)
	rt.handle("POST /api/motorcycles/{id}/records", garageH.CreateRecord, manage)
	rt.handle("GET /api/motorcycles/{id}/service-log", garageH.ServiceLog, view)
	rt.handle("POST /api/motorcycles/{id}/service-log", garageH.AddServiceLogEntry, manage)
	rt.handle("PATCH /api/motorcycles/{id}/service-log/{entryID}", garageH.UpdateServiceLogEntry, manage)

	rt.handle("POST /api/fuel/efficiency", toolsH.FuelEfficiency, view)
	rt.handle("GET /api/presets", toolsH.Presets, view)

	rt.handle("GET /api/settings", garageH.GetSettings, view)
	rt.handle("PUT /api/settings", garageH.PutSettings, manage)
	rt.handle("GET /api/theme", garageH.GetTheme, view)
	rt.handle("POST /api/theme/toggle", garageH.ToggleTheme, manage)

	rt.handle("GET /api/garage", garageH.ExportGarage, exportDoc)
	rt.handle("PUT /api/garage", garageH.ImportGarage, manage)
	rt.handle("DELETE /api/garage", garageH.ClearGarage, manage)
	rt.handle("POST /api/garage/archive", garageH.ArchiveGarage, exportDoc)

	return middleware.Recover(middleware.RequestLogger(rt.authMW.Authenticate(rt.mux)))
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
