package models

import (
	"time"
)

// Motorcycle is a registered bike together with its maintenance schedule and
// service ledger.
type Motorcycle struct {
	ID             string              `json:"id" bson:"id"`
	OwnerID        string              `json:"-" bson:"owner_id"`
	Name           string              `json:"name" bson:"name"`
	Make           string              `json:"make" bson:"make"`
	Model          string              `json:"model" bson:"model"`
	Year           *int                `json:"year,omitempty" bson:"year,omitempty"`
	Preset         string              `json:"preset,omitempty" bson:"preset"` // "scooter", "sport", "cruiser", "custom"
	CurrentMileage int                 `json:"currentMileage" bson:"current_mileage"`
	Records        []MaintenanceRecord `json:"records" bson:"records"`
	ServiceLog     []ServiceLogEntry   `json:"serviceLog" bson:"service_log"`
	ImageURI       string              `json:"imageUri,omitempty" bson:"image_uri,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"created_at"`
}

// RefreshDueSnapshot rewrites the NextDue cache of every record against the
// current mileage.
func (m *Motorcycle) RefreshDueSnapshot() {
	for i := range m.Records {
		m.Records[i].NextDue = m.CurrentMileage >= m.Records[i].NextMileage
	}
}

// FindRecord returns the record with the given id, or nil.
func (m *Motorcycle) FindRecord(id string) *MaintenanceRecord {
	for i := range m.Records {
		if m.Records[i].ID == id {
			return &m.Records[i]
		}
	}
	return nil
}

// FindServiceLogEntry returns the ledger row with the given id, or nil.
func (m *Motorcycle) FindServiceLogEntry(id string) *ServiceLogEntry {
	for i := range m.ServiceLog {
		if m.ServiceLog[i].ID == id {
			return &m.ServiceLog[i]
		}
	}
	return nil
}
