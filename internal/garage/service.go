// Package garage orchestrates a rider's motorcycles, maintenance records,
// service log, settings and theme over the storage repositories. Every
// mutation is a read-modify-write of a single document.
package garage

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/export"
	"github.com/ukydev/motomaint/internal/metrics"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/notify"
)

// LocalOwner owns the garage of the offline CLI.
const LocalOwner = "local"

var (
	// ErrMileageRegression is returned when a mileage update would lower the
	// odometer and the caller did not confirm it.
	ErrMileageRegression = errors.New("new mileage is lower than the current mileage")
	// ErrArchiveDisabled is returned by Archive when no archive storage is configured.
	ErrArchiveDisabled = errors.New("archive storage is not configured")
)

// Recorder receives operation outcomes.
type Recorder interface {
	ObserveOperation(operation string, err error)
	ObserveReminder(err error)
}

// Archiver stores a copy of a garage document.
type Archiver interface {
	Archive(ctx context.Context, ownerID string, garage models.Garage) (export.Archive, error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}
func (nopRecorder) ObserveReminder(error)          {}

// Service implements the garage operations for one storage backend.
type Service struct {
	motorcycles db.MotorcycleCollection
	settings    db.SettingsCollection
	notifier    notify.Publisher
	archiver    Archiver
	recorder    Recorder
	logger      *log.Entry
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the publisher used for due reminders.
func WithNotifier(p notify.Publisher) Option {
	return func(s *Service) { s.notifier = p }
}

// WithArchiver enables Archive.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a garage service over the given repositories.
func NewService(motorcycles db.MotorcycleCollection, settings db.SettingsCollection, opts ...Option) *Service {
	s := &Service{
		motorcycles: motorcycles,
		settings:    settings,
		notifier:    notify.NopPublisher{},
		recorder:    nopRecorder{},
		logger:      log.WithField("component", "garage"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe records the outcome of op and logs failures that are not the
// caller's fault.
func (s *Service) observe(op, ownerID string, err *error) {
	s.recorder.ObserveOperation(op, *err)
	if metrics.Outcome(*err) == metrics.OutcomeError {
		s.logger.WithFields(log.Fields{
			"operation": op,
			"owner":     ownerID,
		}).WithError(*err).Error("Garage operation failed")
	}
}

func (s *Service) load(ctx context.Context, ownerID, id string) (*models.Motorcycle, error) {
	m, err := s.motorcycles.FindMotorcycleByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		return nil, wrapStorage("load motorcycle", err)
	}
	return m, nil
}

func (s *Service) save(ctx context.Context, m *models.Motorcycle) error {
	m.RefreshDueSnapshot()
	if err := s.motorcycles.ReplaceMotorcycle(ctx, *m); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return err
		}
		return wrapStorage("save motorcycle", err)
	}
	return nil
}

func wrapStorage(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
