package garage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/models"
)

var (
	ErrMissingLogDate    = fmt.Errorf("%w: service date is required", models.ErrInvalidInput)
	ErrMissingProcedure  = fmt.Errorf("%w: procedure is required", models.ErrInvalidInput)
	ErrInvalidOdometer   = fmt.Errorf("%w: odometer reading must not be negative", models.ErrInvalidInput)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must not be negative", models.ErrInvalidInput)
	ErrEmptyServicePatch = fmt.Errorf("%w: nothing to update", models.ErrInvalidInput)
)

// ServiceLogDraft is the input for a new service log entry.
type ServiceLogDraft struct {
	Date      string   `json:"date"`
	Procedure string   `json:"procedure"`
	Notes     string   `json:"notes,omitempty"`
	Odometer  int      `json:"odometer"`
	Amount    *float64 `json:"amount,omitempty"`
}

// ServiceLogPatch changes the fields that are set. ClearAmount removes the
// amount.
type ServiceLogPatch struct {
	Date        *string  `json:"date,omitempty"`
	Procedure   *string  `json:"procedure,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Odometer    *int     `json:"odometer,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	ClearAmount bool     `json:"clearAmount,omitempty"`
}

func validateEntry(e models.ServiceLogEntry) error {
	if strings.TrimSpace(e.Date) == "" {
		return ErrMissingLogDate
	}
	if strings.TrimSpace(e.Procedure) == "" {
		return ErrMissingProcedure
	}
	if e.Odometer < 0 {
		return ErrInvalidOdometer
	}
	if e.Amount != nil && *e.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortServiceLog orders entries newest first. Entries with unreadable dates
// keep their relative order after the dated ones.
func SortServiceLog(entries []models.ServiceLogEntry) []models.ServiceLogEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b models.ServiceLogEntry) int {
		ta, okA := parseDate(a.Date)
		tb, okB := parseDate(b.Date)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return out
}

// ServiceLog returns the motorcycle's ledger, newest first.
func (s *Service) ServiceLog(ctx context.Context, ownerID, motorcycleID string) (_ []models.ServiceLogEntry, err error) {
	defer s.observe("service_log", ownerID, &err)

	m, err := s.load(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}
	if m.ServiceLog == nil {
		return []models.ServiceLogEntry{}, nil
	}
	return SortServiceLog(m.ServiceLog), nil
}

// AddServiceLogEntry appends a ledger row.
func (s *Service) AddServiceLogEntry(ctx context.Context, ownerID, motorcycleID string, d ServiceLogDraft) (_ *models.ServiceLogEntry, err error) {
	defer s.observe("add_service_log", ownerID, &err)

	entry := models.ServiceLogEntry{
		ID:        uuid.NewString(),
		Date:      strings.TrimSpace(d.Date),
		Procedure: strings.TrimSpace(d.Procedure),
		Notes:     strings.TrimSpace(d.Notes),
		Odometer:  d.Odometer,
		Amount:    d.Amount,
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}
	m.ServiceLog = append(m.ServiceLog, entry)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{
		"owner":      ownerID,
		"motorcycle": motorcycleID,
		"procedure":  entry.Procedure,
	}).Info("Service log entry added")
	return &entry, nil
}

// UpdateServiceLogEntry applies a partial update to one ledger row.
func (s *Service) UpdateServiceLogEntry(ctx context.Context, ownerID, motorcycleID, entryID string, p ServiceLogPatch) (_ *models.ServiceLogEntry, err error) {
	defer s.observe("update_service_log", ownerID, &err)

	if p.Date == nil && p.Procedure == nil && p.Notes == nil && p.Odometer == nil && p.Amount == nil && !p.ClearAmount {
		return nil, ErrEmptyServicePatch
	}
	m, err := s.load(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}
	entry := m.FindServiceLogEntry(entryID)
	if entry == nil {
		return nil, fmt.Errorf("service log entry %s: %w", entryID, db.ErrNotFound)
	}

	updated := *entry
	if p.Date != nil {
		updated.Date = strings.TrimSpace(*p.Date)
	}
	if p.Procedure != nil {
		updated.Procedure = strings.TrimSpace(*p.Procedure)
	}
	if p.Notes != nil {
		updated.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Odometer != nil {
		updated.Odometer = *p.Odometer
	}
	if p.ClearAmount {
		updated.Amount = nil
	} else if p.Amount != nil {
		amount := *p.Amount
		updated.Amount = &amount
	}
	if err := validateEntry(updated); err != nil {
		return nil, err
	}

	*entry = updated
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return &updated, nil
}
