package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	CommitsTotal          *prometheus.CounterVec
	SessionErrorsTotal    *prometheus.CounterVec
	ActiveSessions        prometheus.Gauge
}

// NewMetrics creates the service metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scinput_upstream_requests_total",
				Help: "Total number of SoundCloud API requests",
			},
			[]string{"endpoint", "status"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scinput_upstream_request_duration_seconds",
				Help:    "Time spent waiting for SoundCloud API responses",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		CommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scinput_commits_total",
				Help: "Total number of selections committed to documents",
			},
			[]string{"mode"},
		),
		SessionErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scinput_session_errors_total",
				Help: "Total number of failures shown to editors",
			},
			[]string{"kind"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scinput_active_sessions",
				Help: "Number of open selection sessions",
			},
		),
	}

	reg.MustRegister(
		metrics.UpstreamRequestsTotal,
		metrics.UpstreamDuration,
		metrics.CommitsTotal,
		metrics.SessionErrorsTotal,
		metrics.ActiveSessions,
	)

	return metrics
}

// RecordUpstreamRequest counts a SoundCloud request. Status 0 means no response.
func (m *Metrics) RecordUpstreamRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode != 0 {
		status = strconv.Itoa(statusCode)
	}
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordCommit(mode string) {
	m.CommitsTotal.WithLabelValues(mode).Inc()
}

func (m *Metrics) RecordSessionError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.SessionErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}
