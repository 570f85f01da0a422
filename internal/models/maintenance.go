package models

// MaintenanceRecord is one scheduled maintenance item of a motorcycle.
type MaintenanceRecord struct {
	ID          string `json:"id" bson:"id"`
	Type        string `json:"type" bson:"type"`
	LastMileage int    `json:"lastMileage" bson:"last_mileage"` // in kilometers
	LastDate    string `json:"lastDate" bson:"last_date"`       // ISO date, "2006-01-02"
	NextMileage int    `json:"nextMileage" bson:"next_mileage"` // derived at creation, never edited
	// NextDue is a snapshot of CurrentMileage >= NextMileage taken at the last
	// write. Decisions always recompute against the live mileage.
	NextDue    bool   `json:"nextDue" bson:"next_due"`
	PartNumber string `json:"partNumber,omitempty" bson:"part_number,omitempty"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ServiceLogEntry is a ledger row of work done on a motorcycle.
type ServiceLogEntry struct {
	ID        string   `json:"id" bson:"id"`
	Date      string   `json:"date" bson:"date"`
	Procedure string   `json:"procedure" bson:"procedure"`
	Notes     string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Odometer  int      `json:"odometer" bson:"odometer"`
	Amount    *float64 `json:"amount,omitempty" bson:"amount,omitempty"`
}
