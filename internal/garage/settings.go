package garage

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/theme"
)

var (
	ErrInvalidUnit             = fmt.Errorf("%w: unit must be km or miles", models.ErrInvalidInput)
	ErrInvalidReminderDistance = fmt.Errorf("%w: reminder distance must not be negative", models.ErrInvalidInput)
)

func validateSettings(settings models.AppSettings) error {
	if !models.IsValidUnit(settings.DefaultUnit) {
		return ErrInvalidUnit
	}
	if settings.ReminderDistance < 0 {
		return ErrInvalidReminderDistance
	}
	return nil
}

// Settings returns the owner's settings, defaults when never saved.
func (s *Service) Settings(ctx context.Context, ownerID string) (_ models.AppSettings, err error) {
	defer s.observe("get_settings", ownerID, &err)

	settings, err := s.settings.LoadSettings(ctx, ownerID)
	if err != nil {
		return models.AppSettings{}, wrapStorage("load settings", err)
	}
	return settings, nil
}

// SaveSettings validates and persists the owner's settings.
func (s *Service) SaveSettings(ctx context.Context, ownerID string, settings models.AppSettings) (err error) {
	defer s.observe("save_settings", ownerID, &err)

	if err := validateSettings(settings); err != nil {
		return err
	}
	if err := s.settings.SaveSettings(ctx, ownerID, settings); err != nil {
		return wrapStorage("save settings", err)
	}
	return nil
}

// Theme loads the persisted theme preference.
func (s *Service) Theme(ctx context.Context, ownerID string) (_ theme.Theme, err error) {
	defer s.observe("get_theme", ownerID, &err)

	dark, err := s.settings.LoadTheme(ctx, ownerID)
	if err != nil {
		return theme.Theme{}, wrapStorage("load theme", err)
	}
	return theme.New(dark), nil
}

// ToggleTheme flips the theme preference and persists it.
func (s *Service) ToggleTheme(ctx context.Context, ownerID string) (_ theme.Theme, err error) {
	defer s.observe("toggle_theme", ownerID, &err)

	dark, err := s.settings.LoadTheme(ctx, ownerID)
	if err != nil {
		return theme.Theme{}, wrapStorage("load theme", err)
	}
	next := theme.New(dark).Toggled()
	if err := s.settings.SaveTheme(ctx, ownerID, next.IsDarkMode); err != nil {
		return theme.Theme{}, wrapStorage("save theme", err)
	}
	s.logger.WithFields(log.Fields{"owner": ownerID, "dark": next.IsDarkMode}).Debug("Theme toggled")
	return next, nil
}
