// Package fuel computes fuel efficiency between two fill-ups.
package fuel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/numfmt"
)

// Plausibility limits.
const (
	MaxFuelLiters = 150.0
	MaxDistanceKm = 2000.0
	MinDistanceKm = 10.0
)

var (
	ErrMissingField         = fmt.Errorf("%w: please fill in all fields with valid numbers", models.ErrInvalidInput)
	ErrInvalidFuel          = fmt.Errorf("%w: fuel filled must be greater than 0 liters", models.ErrInvalidInput)
	ErrInvalidOdometerOrder = fmt.Errorf("%w: second odometer reading must be greater than first reading", models.ErrInvalidInput)

	// Warnings: the inputs are well formed but implausible.
	ErrUnrealisticFuel     = fmt.Errorf("%w: fuel amount seems unusually high (>150L), please verify", models.ErrInvalidInput)
	ErrUnrealisticDistance = fmt.Errorf("%w: distance seems unusually high (>2000km), please verify", models.ErrInvalidInput)
	ErrDistanceTooShort    = fmt.Errorf("%w: distance seems too short (<10km) for accurate calculation", models.ErrInvalidInput)
)

// IsWarning reports whether err is one of the plausibility warnings. They
// still block the calculation.
func IsWarning(err error) bool {
	return errors.Is(err, ErrUnrealisticFuel) ||
		errors.Is(err, ErrUnrealisticDistance) ||
		errors.Is(err, ErrDistanceTooShort)
}

// Rating buckets KMPL into a label.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingVeryGood  Rating = "Very Good"
	RatingGood      Rating = "Good"
	RatingAverage   Rating = "Average"
	RatingPoor      Rating = "Poor"
)

// Rate returns the rating for kmpl. Lower bounds are inclusive.
func Rate(kmpl float64) Rating {
	switch {
	case kmpl >= 40:
		return RatingExcellent
	case kmpl >= 30:
		return RatingVeryGood
	case kmpl >= 20:
		return RatingGood
	case kmpl >= 15:
		return RatingAverage
	default:
		return RatingPoor
	}
}

// Result of a calculation. KMPL is not rounded.
type Result struct {
	Distance float64 `json:"distance"`
	Fuel     float64 `json:"fuel"`
	KMPL     float64 `json:"kmpl"`
	Rating   Rating  `json:"rating"`
}

// Display renders KMPL with two decimals.
func (r Result) Display() string {
	return strconv.FormatFloat(r.KMPL, 'f', 2, 64) + " km/L"
}

// Compute parses raw form input and calculates efficiency. Odometer
// readings may carry thousands separators.
func Compute(firstOdometer, secondOdometer, fuelVolume string) (Result, error) {
	first, ok := parse(numfmt.StripSeparators(firstOdometer))
	if !ok {
		return Result{}, ErrMissingField
	}
	second, ok := parse(numfmt.StripSeparators(secondOdometer))
	if !ok {
		return Result{}, ErrMissingField
	}
	fuel, ok := parse(strings.TrimSpace(fuelVolume))
	if !ok {
		return Result{}, ErrMissingField
	}
	return Calculate(first, second, fuel)
}

// Calculate validates already parsed readings and computes efficiency.
// Rules are checked in order and the first failure wins.
func Calculate(firstOdometer, secondOdometer, fuelVolume float64) (Result, error) {
	if fuelVolume <= 0 {
		return Result{}, ErrInvalidFuel
	}
	if secondOdometer <= firstOdometer {
		return Result{}, ErrInvalidOdometerOrder
	}
	if fuelVolume > MaxFuelLiters {
		return Result{}, ErrUnrealisticFuel
	}
	distance := secondOdometer - firstOdometer
	if distance > MaxDistanceKm {
		return Result{}, ErrUnrealisticDistance
	}
	if distance < MinDistanceKm {
		return Result{}, ErrDistanceTooShort
	}
	kmpl := distance / fuelVolume
	return Result{
		Distance: distance,
		Fuel:     fuelVolume,
		KMPL:     kmpl,
		Rating:   Rate(kmpl),
	}, nil
}

func parse(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
