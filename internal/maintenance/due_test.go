package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/motomaint/internal/models"
)

func rec(id string, next int) models.MaintenanceRecord {
	return models.MaintenanceRecord{ID: id, Type: id, NextMileage: next}
}

func TestIsDueMatchesComparison(t *testing.T) {
	for _, current := range []int{0, 999, 1000, 1001, 50000} {
		for _, last := range []int{0, 500, 1000} {
			r, err := NewRecord(Draft{Type: "Oil Change", LastMileage: last, LastDate: "2024-01-01"}, 50000)
			require.NoError(t, err)
			assert.Equal(t, current >= r.NextMileage, IsDue(current, r))
			assert.Equal(t, r.NextMileage-current, Remaining(current, r))
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		remaining int
		want      Status
	}{
		{-1, StatusOverdue},
		{-5000, StatusOverdue},
		{0, StatusDueNow},
		{1, StatusWarning},
		{1000, StatusWarning},
		{1001, StatusOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.remaining), "remaining %d", tt.remaining)
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Overdue by 1,250 km", StatusText(-1250))
	assert.Equal(t, "Due Now", StatusText(0))
	assert.Equal(t, "Due in 800 km", StatusText(800))
	assert.Equal(t, "Due in 12,000 km", StatusText(12000))
}

func TestEvaluateAll_Order(t *testing.T) {
	current := 10000
	r1 := rec("R1", 9950)  // due, remaining -50
	r2 := rec("R2", 10200) // not due, remaining 200
	r3 := rec("R3", 10100) // not due, remaining 100

	got := EvaluateAll(current, []models.MaintenanceRecord{r2, r1, r3})

	ids := []string{got[0].Record.ID, got[1].Record.ID, got[2].Record.ID}
	assert.Equal(t, []string{"R1", "R3", "R2"}, ids)
	assert.True(t, got[0].Due)
	assert.Equal(t, -50, got[0].Remaining)
	assert.Equal(t, StatusOverdue, got[0].Status)
	assert.Equal(t, StatusWarning, got[1].Status)
}

func TestEvaluateAll_DueNowSortsWithDue(t *testing.T) {
	current := 5000
	got := EvaluateAll(current, []models.MaintenanceRecord{
		rec("later", 7000),
		rec("now", 5000),
		rec("late", 4000),
	})
	assert.Equal(t, "late", got[0].Record.ID)
	assert.Equal(t, "now", got[1].Record.ID)
	assert.Equal(t, StatusDueNow, got[1].Status)
	assert.Equal(t, "later", got[2].Record.ID)
}

func TestEvaluateAll_Stable(t *testing.T) {
	got := EvaluateAll(0, []models.MaintenanceRecord{
		rec("first", 3000),
		rec("second", 3000),
		rec("third", 3000),
	})
	assert.Equal(t, "first", got[0].Record.ID)
	assert.Equal(t, "second", got[1].Record.ID)
	assert.Equal(t, "third", got[2].Record.ID)
}

func TestEvaluateAll_Empty(t *testing.T) {
	assert.Empty(t, EvaluateAll(100, nil))
}

func TestDueCountAndNextDueDistance(t *testing.T) {
	records := []models.MaintenanceRecord{
		rec("a", 900),
		rec("b", 1000),
		rec("c", 1800),
		rec("d", 1300),
	}
	assert.Equal(t, 2, DueCount(1000, records))

	d, ok := NextDueDistance(1000, records)
	assert.True(t, ok)
	assert.Equal(t, 300, d)

	_, ok = NextDueDistance(5000, records)
	assert.False(t, ok)
	_, ok = NextDueDistance(0, nil)
	assert.False(t, ok)
}
