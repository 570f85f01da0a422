// Package metrics exposes Prometheus collectors for the API and the garage
// service.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/models"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Collector records request, operation and reminder metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	operations *prometheus.CounterVec
	reminders  *prometheus.CounterVec
	efficiency *prometheus.CounterVec
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// New registers the collectors on reg. A nil registry means a fresh one.
// Collectors already registered on reg are reused.
func New(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{gatherer: reg}
	var err error
	if c.requests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "motomaint_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if c.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "motomaint_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}
	if c.operations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "motomaint_garage_operations_total",
		Help: "Garage operations by outcome",
	}, []string{"operation", "outcome"})); err != nil {
		return nil, err
	}
	if c.reminders, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "motomaint_reminders_published_total",
		Help: "Due reminders handed to the notifier",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if c.efficiency, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "motomaint_fuel_calculations_total",
		Help: "Fuel efficiency calculations by rating, or by outcome when rejected",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	return c, nil
}

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, models.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, db.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveOperation records the outcome of a garage operation.
func (c *Collector) ObserveOperation(operation string, err error) {
	c.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveReminder records a reminder publish attempt.
func (c *Collector) ObserveReminder(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.reminders.WithLabelValues(outcome).Inc()
}

// ObserveEfficiency records a fuel calculation by its rating, or by outcome
// when the input was rejected.
func (c *Collector) ObserveEfficiency(rating string, err error) {
	if err != nil {
		rating = Outcome(err)
	}
	c.efficiency.WithLabelValues(rating).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
