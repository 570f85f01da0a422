package db

import (
	"context"
	"errors"

	"github.com/ukydev/motomaint/internal/models"
)

// ErrNotFound is returned when a requested document does not exist for the
// given owner.
var ErrNotFound = errors.New("not found")

// MotorcycleCollection stores motorcycles, each with its embedded records and
// service log. Every call is scoped to the owning user.
type MotorcycleCollection interface {
	InsertMotorcycle(ctx context.Context, motorcycle models.Motorcycle) error
	FindMotorcycles(ctx context.Context, ownerID string) ([]models.Motorcycle, error)
	FindMotorcycleByID(ctx context.Context, ownerID, id string) (*models.Motorcycle, error)
	ReplaceMotorcycle(ctx context.Context, motorcycle models.Motorcycle) error
	DeleteMotorcycle(ctx context.Context, ownerID, id string) error
	DeleteAllMotorcycles(ctx context.Context, ownerID string) error
	// ReplaceAllMotorcycles swaps the owner's motorcycles for the given set.
	// On error the previous set is left in place.
	ReplaceAllMotorcycles(ctx context.Context, ownerID string, motorcycles []models.Motorcycle) error
}

// SettingsCollection stores per-owner settings and the theme preference,
// which is persisted apart from the settings record.
type SettingsCollection interface {
	LoadSettings(ctx context.Context, ownerID string) (models.AppSettings, error)
	SaveSettings(ctx context.Context, ownerID string, settings models.AppSettings) error
	LoadTheme(ctx context.Context, ownerID string) (bool, error)
	SaveTheme(ctx context.Context, ownerID string, dark bool) error
	DeleteSettings(ctx context.Context, ownerID string) error
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}
