package fuel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/motomaint/internal/models"
)

func TestCompute_Typical(t *testing.T) {
	res, err := Compute("15000", "15300", "10.5")
	require.NoError(t, err)
	assert.Equal(t, 300.0, res.Distance)
	assert.InDelta(t, 28.5714, res.KMPL, 0.0001)
	assert.Equal(t, RatingGood, res.Rating)
	assert.Equal(t, "28.57 km/L", res.Display())
}

func TestCompute_FormattedOdometer(t *testing.T) {
	res, err := Compute("15,000", "15,450", "9")
	require.NoError(t, err)
	assert.Equal(t, 450.0, res.Distance)
	assert.Equal(t, 50.0, res.KMPL)
	assert.Equal(t, RatingExcellent, res.Rating)
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name                string
		first, second, fuel string
		want                error
		warning             bool
	}{
		{"empty first", "", "15300", "10", ErrMissingField, false},
		{"empty fuel", "15000", "15300", " ", ErrMissingField, false},
		{"not a number", "abc", "15300", "10", ErrMissingField, false},
		{"nan", "15000", "15300", "NaN", ErrMissingField, false},
		{"zero fuel", "15000", "15300", "0", ErrInvalidFuel, false},
		{"negative fuel beats order", "15000", "14000", "-1", ErrInvalidFuel, false},
		{"second before first", "15000", "14000", "5", ErrInvalidOdometerOrder, false},
		{"equal readings", "15000", "15000", "5", ErrInvalidOdometerOrder, false},
		{"too much fuel", "15000", "15300", "150.1", ErrUnrealisticFuel, true},
		{"too far", "15000", "17001", "40", ErrUnrealisticDistance, true},
		{"too short", "15000", "15005", "1", ErrDistanceTooShort, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.first, tt.second, tt.fuel)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
			assert.Equal(t, tt.warning, IsWarning(err))
		})
	}
}

func TestCalculate_Boundaries(t *testing.T) {
	_, err := Calculate(0, 2000, 150)
	assert.NoError(t, err, "exactly 150L and 2000km are allowed")

	_, err = Calculate(0, 10, 1)
	assert.NoError(t, err, "exactly 10km is allowed")

	_, err = Calculate(0, 9.9, 1)
	assert.ErrorIs(t, err, ErrDistanceTooShort)
}

func TestRate(t *testing.T) {
	tests := []struct {
		kmpl float64
		want Rating
	}{
		{55, RatingExcellent},
		{40, RatingExcellent},
		{39.99, RatingVeryGood},
		{30, RatingVeryGood},
		{29.99, RatingGood},
		{20, RatingGood},
		{19.99, RatingAverage},
		{15, RatingAverage},
		{14.99, RatingPoor},
		{0.5, RatingPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.kmpl), "kmpl %.2f", tt.kmpl)
	}
}

func TestCalculate_ExactThirty(t *testing.T) {
	res, err := Calculate(1000, 1300, 10)
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.KMPL)
	assert.Equal(t, RatingVeryGood, res.Rating)
	assert.Equal(t, "30.00 km/L", res.Display())
}
