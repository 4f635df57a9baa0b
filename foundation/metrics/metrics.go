// Package metrics constructs the metrics the application will track.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics represents the set of metrics we gather. The metrics are held on
// their own registry so several values can live in one process during tests.
type Metrics struct {
	registry        *prometheus.Registry
	blocksMined     *prometheus.CounterVec
	miningDuration  *prometheus.HistogramVec
	chainValidation *prometheus.CounterVec
	requests        *prometheus.CounterVec
}

// New constructs and registers the metrics under the specified namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := Metrics{
		registry: reg,
		blocksMined: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chain",
				Name:      "blocks_mined_total",
				Help:      "Total number of blocks mined.",
			},
			[]string{"mode"},
		),
		miningDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chain",
				Name:      "mining_duration_seconds",
				Help:      "Time spent solving the proof of work for a block.",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"mode"},
		),
		chainValidation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chain",
				Name:      "validations_total",
				Help:      "Total number of chain validations by result.",
			},
			[]string{"result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests.",
			},
			[]string{"method", "status"},
		),
	}

	reg.MustRegister(m.blocksMined, m.miningDuration, m.chainValidation, m.requests)

	return &m
}

// BlockMined records a block that was mined with the specified mode.
func (m *Metrics) BlockMined(mode string, duration time.Duration) {
	m.blocksMined.WithLabelValues(mode).Inc()
	m.miningDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// ChainValidated records the result of a chain validation.
func (m *Metrics) ChainValidated(valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.chainValidation.WithLabelValues(result).Inc()
}

// Request records a handled API request.
func (m *Metrics) Request(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the handler that exposes the metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
