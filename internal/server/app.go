package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/auth"
	"github.com/ukydev/motomaint/internal/config"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/export"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/metrics"
	"github.com/ukydev/motomaint/internal/notify"
)

const shutdownTimeout = 10 * time.Second

// App owns the storage backend, the reminder publisher and the services
// built on them. Both the HTTP server and the CLI run on an App.
type App struct {
	Config  config.Config
	Stores  *db.Stores
	Garage  *garage.Service
	Auth    *auth.Service
	Metrics *metrics.Collector

	publisher notify.Publisher
}

// NewApp connects the configured backends. MQTT and S3 are optional and
// stay disabled when their broker or bucket is unset.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := notify.NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			_ = stores.Close(ctx)
			return nil, err
		}
		publisher = p
	}

	opts := []garage.Option{
		garage.WithNotifier(publisher),
		garage.WithRecorder(collector),
	}
	if cfg.S3.Bucket != "" {
		archiver, err := export.NewS3Archiver(ctx, cfg.S3)
		if err != nil {
			publisher.Close()
			_ = stores.Close(ctx)
			return nil, err
		}
		opts = append(opts, garage.WithArchiver(archiver))
		log.WithField("bucket", cfg.S3.Bucket).Info("Garage archives enabled")
	}

	return &App{
		Config:    cfg,
		Stores:    stores,
		Garage:    garage.NewService(stores.Motorcycles, stores.Settings, opts...),
		Auth:      auth.NewService(cfg.JWT),
		Metrics:   collector,
		publisher: publisher,
	}, nil
}

// Handler returns the fully wired API.
func (a *App) Handler() http.Handler {
	return NewRouter(Deps{
		Auth:    a.Auth,
		Users:   a.Stores.Users,
		Garage:  a.Garage,
		Metrics: a.Metrics,
	})
}

// Close disconnects the publisher and the storage backend.
func (a *App) Close(ctx context.Context) error {
	a.publisher.Close()
	return a.Stores.Close(ctx)
}

// Serve listens on the configured port until ctx is cancelled, then drains
// in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
