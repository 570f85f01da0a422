package garage

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/notify"
)

const reminderTimeout = 10 * time.Second

// Reminders returns one reminder per record whose remaining distance is at
// most reminderDistance, in display order.
func Reminders(m models.Motorcycle, reminderDistance int, at time.Time) []notify.Reminder {
	var out []notify.Reminder
	for _, ev := range maintenance.EvaluateAll(m.CurrentMileage, m.Records) {
		if ev.Remaining > reminderDistance {
			continue
		}
		out = append(out, notify.Reminder{
			OwnerID:        m.OwnerID,
			MotorcycleID:   m.ID,
			MotorcycleName: m.Name,
			RecordID:       ev.Record.ID,
			Type:           ev.Record.Type,
			CurrentMileage: m.CurrentMileage,
			NextMileage:    ev.Record.NextMileage,
			Remaining:      ev.Remaining,
			Status:         string(ev.Status),
			StatusText:     ev.StatusText,
			Timestamp:      at.UnixMilli(),
		})
	}
	return out
}

// publishReminders never fails the calling operation; errors are logged and
// counted.
func (s *Service) publishReminders(ctx context.Context, m *models.Motorcycle) {
	settings, err := s.settings.LoadSettings(ctx, m.OwnerID)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping reminders, settings unavailable")
		return
	}
	reminders := Reminders(*m, settings.ReminderDistance, s.now())
	if len(reminders) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, reminderTimeout)
	defer cancel()
	for _, r := range reminders {
		err := s.notifier.PublishReminder(ctx, r)
		s.recorder.ObserveReminder(err)
		if err != nil {
			s.logger.WithFields(log.Fields{
				"motorcycle": m.ID,
				"type":       r.Type,
			}).WithError(err).Warn("Failed to publish reminder")
		}
	}
}
