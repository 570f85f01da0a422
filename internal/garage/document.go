package garage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/export"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/models"
)

// Export assembles the owner's garage document.
func (s *Service) Export(ctx context.Context, ownerID string) (_ models.Garage, err error) {
	defer s.observe("export", ownerID, &err)
	return s.export(ctx, ownerID)
}

func (s *Service) export(ctx context.Context, ownerID string) (models.Garage, error) {
	motorcycles, err := s.motorcycles.FindMotorcycles(ctx, ownerID)
	if err != nil {
		return models.Garage{}, wrapStorage("list motorcycles", err)
	}
	settings, err := s.settings.LoadSettings(ctx, ownerID)
	if err != nil {
		return models.Garage{}, wrapStorage("load settings", err)
	}
	return models.Garage{Motorcycles: motorcycles, Settings: settings}, nil
}

// normalizeImport validates every motorcycle of an incoming document and
// fills what older documents may lack: ids, presets, slices and creation
// times. nextMileage is kept as stored.
func (s *Service) normalizeImport(ownerID string, garage *models.Garage) error {
	if err := validateSettings(garage.Settings); err != nil {
		return err
	}
	seen := make(map[string]bool, len(garage.Motorcycles))
	for i := range garage.Motorcycles {
		m := &garage.Motorcycles[i]
		if m.Preset == "" {
			m.Preset = maintenance.PresetScooter
		}
		if err := s.validateMotorcycle(m.Name, m.Make, m.Model, m.Year, m.Preset, m.CurrentMileage); err != nil {
			return fmt.Errorf("motorcycle %d: %w", i, err)
		}
		if m.ID == "" || seen[m.ID] {
			m.ID = uuid.NewString()
		}
		seen[m.ID] = true
		m.OwnerID = ownerID
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now().UTC()
		}
		if m.Records == nil {
			m.Records = []models.MaintenanceRecord{}
		}
		if m.ServiceLog == nil {
			m.ServiceLog = []models.ServiceLogEntry{}
		}
		for j := range m.Records {
			r := &m.Records[j]
			if err := validateImportedRecord(*r, m.CurrentMileage); err != nil {
				return fmt.Errorf("motorcycle %d record %d: %w", i, j, err)
			}
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
		}
		for j := range m.ServiceLog {
			e := &m.ServiceLog[j]
			if err := validateEntry(*e); err != nil {
				return fmt.Errorf("motorcycle %d service log %d: %w", i, j, err)
			}
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
		}
		m.RefreshDueSnapshot()
	}
	return nil
}

// validateImportedRecord applies the creation rules that still make sense
// for a stored record. Older documents may lack a date.
func validateImportedRecord(r models.MaintenanceRecord, currentMileage int) error {
	switch {
	case strings.TrimSpace(r.Type) == "":
		return maintenance.ErrMissingType
	case r.LastMileage < 0:
		return maintenance.ErrInvalidMileage
	case r.LastMileage > currentMileage:
		return maintenance.ErrFutureService
	}
	return nil
}

// Import replaces the owner's garage with the given document. The whole
// document is validated before anything is written, and the motorcycles are
// swapped in one storage call so a failure leaves the old garage in place.
func (s *Service) Import(ctx context.Context, ownerID string, garage models.Garage) (err error) {
	defer s.observe("import", ownerID, &err)

	if err := s.normalizeImport(ownerID, &garage); err != nil {
		return err
	}
	if err := s.motorcycles.ReplaceAllMotorcycles(ctx, ownerID, garage.Motorcycles); err != nil {
		return wrapStorage("replace motorcycles", err)
	}
	if err := s.settings.SaveSettings(ctx, ownerID, garage.Settings); err != nil {
		return wrapStorage("save settings", err)
	}
	s.logger.WithFields(log.Fields{
		"owner":       ownerID,
		"motorcycles": len(garage.Motorcycles),
	}).Info("Garage imported")
	return nil
}

// ClearAll deletes every motorcycle, the settings and the theme preference.
func (s *Service) ClearAll(ctx context.Context, ownerID string) (err error) {
	defer s.observe("clear_all", ownerID, &err)

	if err := s.motorcycles.DeleteAllMotorcycles(ctx, ownerID); err != nil {
		return wrapStorage("clear motorcycles", err)
	}
	if err := s.settings.DeleteSettings(ctx, ownerID); err != nil {
		return wrapStorage("clear settings", err)
	}
	s.logger.WithField("owner", ownerID).Warn("Garage cleared")
	return nil
}

// Archive exports the owner's garage and hands it to the archiver.
func (s *Service) Archive(ctx context.Context, ownerID string) (_ export.Archive, err error) {
	defer s.observe("archive", ownerID, &err)

	if s.archiver == nil {
		return export.Archive{}, ErrArchiveDisabled
	}
	garage, err := s.export(ctx, ownerID)
	if err != nil {
		return export.Archive{}, err
	}
	archive, err := s.archiver.Archive(ctx, ownerID, garage)
	if err != nil {
		return export.Archive{}, err
	}
	s.logger.WithFields(log.Fields{"owner": ownerID, "key": archive.Key}).Info("Garage archived")
	return archive, nil
}
