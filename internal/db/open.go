package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/config"
)

// Stores bundles the repositories of one backend.
type Stores struct {
	Motorcycles MotorcycleCollection
	Settings    SettingsCollection
	Users       UserCollection

	close func(context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewSQLiteStores exposes a SQLiteStore through the Stores bundle.
func NewSQLiteStores(store *SQLiteStore) *Stores {
	return &Stores{
		Motorcycles: store,
		Settings:    store,
		Users:       store,
		close:       func(context.Context) error { return store.Close() },
	}
}

// Open connects the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.Storage.SQLitePath).Info("Opened SQLite store")
		return NewSQLiteStores(store), nil
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.Mongo.DBName)
		motorcycles := &MongoMotorcycleCollection{Collection: database.Collection("motorcycles")}
		if err := motorcycles.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure motorcycle indexes: %w", err)
		}
		log.WithField("database", cfg.Mongo.DBName).Info("Connected to MongoDB")
		return &Stores{
			Motorcycles: motorcycles,
			Settings:    &MongoSettingsCollection{Collection: database.Collection("settings")},
			Users:       &MongoUserCollection{Collection: database.Collection("users")},
			close:       client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
