package garage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/models"
)

func amount(v float64) *float64 { return &v }

func TestSortServiceLog(t *testing.T) {
	entries := []models.ServiceLogEntry{
		{ID: "old", Date: "2023-01-10"},
		{ID: "bad", Date: "someday"},
		{ID: "new", Date: "2024-03-05T10:00:00Z"},
		{ID: "mid", Date: "2023-11-30"},
	}
	sorted := SortServiceLog(entries)

	ids := make([]string, 0, len(sorted))
	for _, e := range sorted {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old", "bad"}, ids)
	assert.Equal(t, "old", entries[0].ID, "input is not reordered")
}

func TestServiceLog_AddAndList(t *testing.T) {
	f := newFixture(t)
	m := f.addBike(t, 8000)
	ctx := context.Background()

	_, err := f.svc.AddServiceLogEntry(ctx, owner, m.ID, ServiceLogDraft{
		Date: "2024-01-01", Procedure: "Oil change", Odometer: 7000, Amount: amount(25.5),
	})
	require.NoError(t, err)
	second, err := f.svc.AddServiceLogEntry(ctx, owner, m.ID, ServiceLogDraft{
		Date: "2024-04-01", Procedure: "Brake pads", Notes: " front ", Odometer: 7900,
	})
	require.NoError(t, err)
	assert.Equal(t, "front", second.Notes)
	assert.Nil(t, second.Amount)

	log, err := f.svc.ServiceLog(ctx, owner, m.ID)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "Brake pads", log[0].Procedure)
	assert.Equal(t, 25.5, *log[1].Amount)
}

func TestServiceLog_Validation(t *testing.T) {
	f := newFixture(t)
	m := f.addBike(t, 8000)

	tests := []struct {
		name  string
		draft ServiceLogDraft
		want  error
	}{
		{"missing date", ServiceLogDraft{Procedure: "p"}, ErrMissingLogDate},
		{"missing procedure", ServiceLogDraft{Date: "2024-01-01", Procedure: " "}, ErrMissingProcedure},
		{"negative odometer", ServiceLogDraft{Date: "2024-01-01", Procedure: "p", Odometer: -1}, ErrInvalidOdometer},
		{"negative amount", ServiceLogDraft{Date: "2024-01-01", Procedure: "p", Amount: amount(-3)}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddServiceLogEntry(context.Background(), owner, m.ID, tt.draft)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateServiceLogEntry(t *testing.T) {
	f := newFixture(t)
	m := f.addBike(t, 8000)
	ctx := context.Background()
	entry, err := f.svc.AddServiceLogEntry(ctx, owner, m.ID, ServiceLogDraft{
		Date: "2024-01-01", Procedure: "Oil change", Odometer: 7000, Amount: amount(20),
	})
	require.NoError(t, err)

	procedure := "Oil and filter"
	odometer := 7100
	updated, err := f.svc.UpdateServiceLogEntry(ctx, owner, m.ID, entry.ID, ServiceLogPatch{
		Procedure: &procedure, Odometer: &odometer,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oil and filter", updated.Procedure)
	assert.Equal(t, 7100, updated.Odometer)
	assert.Equal(t, "2024-01-01", updated.Date)
	assert.Equal(t, 20.0, *updated.Amount)

	updated, err = f.svc.UpdateServiceLogEntry(ctx, owner, m.ID, entry.ID, ServiceLogPatch{ClearAmount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Amount)

	empty := ""
	_, err = f.svc.UpdateServiceLogEntry(ctx, owner, m.ID, entry.ID, ServiceLogPatch{Procedure: &empty})
	assert.ErrorIs(t, err, ErrMissingProcedure)

	_, err = f.svc.UpdateServiceLogEntry(ctx, owner, m.ID, entry.ID, ServiceLogPatch{})
	assert.ErrorIs(t, err, ErrEmptyServicePatch)

	_, err = f.svc.UpdateServiceLogEntry(ctx, owner, m.ID, "missing", ServiceLogPatch{ClearAmount: true})
	assert.ErrorIs(t, err, db.ErrNotFound)

	log, err := f.svc.ServiceLog(ctx, owner, m.ID)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "Oil and filter", log[0].Procedure)
	assert.Nil(t, log[0].Amount)
}
