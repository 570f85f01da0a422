package garage

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/models"
)

// DueReport is a motorcycle's schedule ordered for display.
type DueReport struct {
	MotorcycleID    string                   `json:"motorcycleId"`
	Name            string                   `json:"name"`
	CurrentMileage  int                      `json:"currentMileage"`
	Items           []maintenance.Evaluation `json:"items"`
	DueCount        int                      `json:"dueCount"`
	NextDueDistance *int                     `json:"nextDueDistance,omitempty"`
}

// NewDueReport evaluates every record of m against its current mileage.
func NewDueReport(m models.Motorcycle) DueReport {
	sum := summarize(m)
	return DueReport{
		MotorcycleID:    m.ID,
		Name:            m.Name,
		CurrentMileage:  m.CurrentMileage,
		Items:           maintenance.EvaluateAll(m.CurrentMileage, m.Records),
		DueCount:        sum.DueCount,
		NextDueDistance: sum.NextDueDistance,
	}
}

// AddRecord validates d against the motorcycle's current mileage and
// appends the resulting record.
func (s *Service) AddRecord(ctx context.Context, ownerID, motorcycleID string, d maintenance.Draft) (_ *models.MaintenanceRecord, err error) {
	defer s.observe("add_record", ownerID, &err)

	m, err := s.load(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}
	rec, err := maintenance.NewRecord(d, m.CurrentMileage)
	if err != nil {
		return nil, err
	}
	m.Records = append(m.Records, rec)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{
		"owner":        ownerID,
		"motorcycle":   motorcycleID,
		"type":         rec.Type,
		"next_mileage": rec.NextMileage,
	}).Info("Maintenance recorded")
	return m.FindRecord(rec.ID), nil
}

// DueReport returns the motorcycle's records ordered due first, then by
// remaining distance.
func (s *Service) DueReport(ctx context.Context, ownerID, motorcycleID string) (_ DueReport, err error) {
	defer s.observe("due_report", ownerID, &err)

	m, err := s.load(ctx, ownerID, motorcycleID)
	if err != nil {
		return DueReport{}, err
	}
	return NewDueReport(*m), nil
}
