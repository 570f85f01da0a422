package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/models"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeInvalid, Outcome(fmt.Errorf("%w: bad", models.ErrInvalidInput)))
	assert.Equal(t, OutcomeNotFound, Outcome(fmt.Errorf("load: %w", db.ErrNotFound)))
	assert.Equal(t, OutcomeError, Outcome(errors.New("disk full")))
}

func TestCollector_ObserveOperation(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.ObserveOperation("add_record", nil)
	c.ObserveOperation("add_record", nil)
	c.ObserveOperation("add_record", fmt.Errorf("%w", models.ErrInvalidInput))

	expected := `
# HELP motomaint_garage_operations_total Garage operations by outcome
# TYPE motomaint_garage_operations_total counter
motomaint_garage_operations_total{operation="add_record",outcome="invalid"} 1
motomaint_garage_operations_total{operation="add_record",outcome="ok"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(c.operations, strings.NewReader(expected)))
}

func TestCollector_RequestsAndReminders(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	c.ObserveRequest(http.MethodGet, "/api/motorcycles", http.StatusOK, 20*time.Millisecond)
	c.ObserveReminder(nil)
	c.ObserveReminder(errors.New("broker down"))
	c.ObserveEfficiency("Good", nil)
	c.ObserveEfficiency("", fmt.Errorf("%w", models.ErrInvalidInput))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/motorcycles", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reminders.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.efficiency.WithLabelValues("Good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.efficiency.WithLabelValues(OutcomeInvalid)))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.ObserveReminder(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.reminders.WithLabelValues(OutcomeOK)))
}

func TestCollector_Handler(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.ObserveOperation("list", nil)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(body), `motomaint_garage_operations_total{operation="list",outcome="ok"} 1`)
}
