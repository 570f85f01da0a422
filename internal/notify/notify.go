// Package notify publishes maintenance due reminders.
package notify

import "context"

// Reminder is published when a maintenance item comes within the rider's
// reminder distance.
type Reminder struct {
	OwnerID        string `json:"ownerId"`
	MotorcycleID   string `json:"motorcycleId"`
	MotorcycleName string `json:"motorcycleName"`
	RecordID       string `json:"recordId"`
	Type           string `json:"type"`
	CurrentMileage int    `json:"currentMileage"`
	NextMileage    int    `json:"nextMileage"`
	Remaining      int    `json:"remaining"`
	Status         string `json:"status"`
	StatusText     string `json:"statusText"`
	Timestamp      int64  `json:"timestamp"`
}

// Publisher delivers reminders to riders.
type Publisher interface {
	PublishReminder(ctx context.Context, reminder Reminder) error
	Close()
}

// NopPublisher drops every reminder. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishReminder(context.Context, Reminder) error { return nil }
func (NopPublisher) Close()                                          {}
