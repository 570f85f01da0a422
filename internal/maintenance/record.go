package maintenance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ukydev/motomaint/internal/models"
)

var (
	ErrMissingType    = fmt.Errorf("%w: maintenance type is required", models.ErrInvalidInput)
	ErrInvalidMileage = fmt.Errorf("%w: service mileage must be a non-negative whole number", models.ErrInvalidInput)
	ErrFutureService  = fmt.Errorf("%w: service mileage cannot be greater than current mileage", models.ErrInvalidInput)
	ErrMissingDate    = fmt.Errorf("%w: service date is required", models.ErrInvalidInput)
)

// Draft is the input for a new maintenance record.
type Draft struct {
	Type        string `json:"type"`
	CustomType  string `json:"customType,omitempty"` // used when Type is "Custom"
	LastMileage int    `json:"lastMileage"`
	LastDate    string `json:"lastDate"`
	PartNumber  string `json:"partNumber,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ResolvedType is the label the record will carry.
func (d Draft) ResolvedType() string {
	if d.Type == CustomType {
		return strings.TrimSpace(d.CustomType)
	}
	return strings.TrimSpace(d.Type)
}

// Validate applies the creation rules in order; the first failure wins.
func (d Draft) Validate(currentMileage int) error {
	if d.ResolvedType() == "" {
		return ErrMissingType
	}
	if d.LastMileage < 0 {
		return ErrInvalidMileage
	}
	if d.LastMileage > currentMileage {
		return ErrFutureService
	}
	if strings.TrimSpace(d.LastDate) == "" {
		return ErrMissingDate
	}
	return nil
}

// NewRecord validates d and derives the record's next service mileage from
// DefaultIntervals.
func NewRecord(d Draft, currentMileage int) (models.MaintenanceRecord, error) {
	if err := d.Validate(currentMileage); err != nil {
		return models.MaintenanceRecord{}, err
	}
	typ := d.ResolvedType()
	next := d.LastMileage + Interval(typ)
	return models.MaintenanceRecord{
		ID:          uuid.NewString(),
		Type:        typ,
		LastMileage: d.LastMileage,
		LastDate:    strings.TrimSpace(d.LastDate),
		NextMileage: next,
		NextDue:     currentMileage >= next,
		PartNumber:  strings.TrimSpace(d.PartNumber),
		Notes:       strings.TrimSpace(d.Notes),
	}, nil
}
