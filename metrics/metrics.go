// Package metrics holds the Prometheus counters of playback sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session counters and their registry.
type Metrics struct {
	registry       *prometheus.Registry
	sessionsTotal  prometheus.Counter
	activeSessions prometheus.Gauge
	loaderErrors   *prometheus.CounterVec
	progressWrites *prometheus.CounterVec
	gestures       *prometheus.CounterVec
	skips          *prometheus.CounterVec
}

// New creates and registers the session metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playcore_sessions_started_total",
			Help: "Total number of playback sessions started",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playcore_active_sessions",
			Help: "Number of playback sessions not yet closed",
		}),
		loaderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playcore_loader_errors_total",
			Help: "Stream loader errors by fatality",
		}, []string{"fatal"}),
		progressWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playcore_progress_writes_total",
			Help: "Progress checkpoint writes by result",
		}, []string{"result"}),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playcore_gestures_total",
			Help: "Recognised gestures by kind",
		}, []string{"kind"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playcore_skips_total",
			Help: "Intro and outro skips by window and trigger",
		}, []string{"window", "trigger"}),
	}

	registry.MustRegister(
		m.sessionsTotal,
		m.activeSessions,
		m.loaderErrors,
		m.progressWrites,
		m.gestures,
		m.skips,
	)

	return m
}

// Recording methods are no-ops on a nil *Metrics.

// SessionStarted counts a started session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.activeSessions.Inc()
}

// SessionClosed marks a session closed.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// LoaderError counts a stream loader error.
func (m *Metrics) LoaderError(fatal bool) {
	if m == nil {
		return
	}
	label := "false"
	if fatal {
		label = "true"
	}
	m.loaderErrors.WithLabelValues(label).Inc()
}

// ProgressWrite counts a checkpoint write outcome.
func (m *Metrics) ProgressWrite(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.progressWrites.WithLabelValues(result).Inc()
}

// Gesture counts a recognised gesture.
func (m *Metrics) Gesture(kind string) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(kind).Inc()
}

// Skip counts a window skip. trigger is "user" or "auto".
func (m *Metrics) Skip(window, trigger string) {
	if m == nil {
		return
	}
	m.skips.WithLabelValues(window, trigger).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
