// Package metric exposes Prometheus metrics for CSRFTools: token
// lifecycle counters, a live-session gauge, and HTTP request timings.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation result label values.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Slot label values.
const (
	SlotOld = "old"
	SlotNew = "new"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// TokensIssued counts Create calls (first creations and rotations).
	TokensIssued prometheus.Counter

	// TokenValidations counts IsValid calls by slot and result.
	TokenValidations *prometheus.CounterVec

	// TokensDeleted counts Delete calls that removed an entry.
	TokensDeleted prometheus.Counter

	// RequestDuration observes HTTP handler latency by route and code.
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers all application metrics. The
// sessions function, when non-nil, feeds a live-session gauge.
func NewRegistry(sessions func() float64) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csrftools_tokens_issued_total",
			Help: "Number of anti-forgery token values issued.",
		}),
		TokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csrftools_token_validations_total",
			Help: "Number of token validations by slot and result.",
		}, []string{"slot", "result"}),
		TokensDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csrftools_tokens_deleted_total",
			Help: "Number of token entries deleted.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "csrftools_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	reg.MustRegister(r.TokensIssued, r.TokenValidations, r.TokensDeleted, r.RequestDuration)

	if sessions != nil {
		r.RegisterSessionsGauge(sessions)
	}

	return r
}

// RegisterSessionsGauge registers the live-session gauge. Used when the
// storage backend is constructed after the registry.
func (r *Registry) RegisterSessionsGauge(sessions func() float64) {
	r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "csrftools_sessions_active",
		Help: "Number of live session records.",
	}, sessions))
}

// ObserveValidation records one validation outcome.
func (r *Registry) ObserveValidation(useNewSlot, valid bool) {
	slot := SlotOld
	if useNewSlot {
		slot = SlotNew
	}
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	r.TokenValidations.WithLabelValues(slot, result).Inc()
}

// Registerer exposes the underlying registry for auxiliary collectors,
// such as the Badger size gauges.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Handler returns the /metrics HTTP handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
