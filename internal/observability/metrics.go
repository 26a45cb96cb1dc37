// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Source metrics
	SourceFetchesTotal  *prometheus.CounterVec
	SourceFetchDuration *prometheus.HistogramVec
	RecordsFetched      prometheus.Counter
	RecordErrors        *prometheus.CounterVec

	// Processing metrics
	StageRunsTotal  *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	DensifiedPoints prometheus.Gauge
	WindowRunsTotal *prometheus.CounterVec
	WindowDuration  *prometheus.HistogramVec

	// Pipeline metrics
	PipelineRunsTotal      *prometheus.CounterVec
	VerificationFailures   *prometheus.CounterVec
	LastSuccessfulPipeline prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "nft_floor_twap"
	}

	return &Metrics{
		SourceFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Total number of source fetches by source and status",
		}, []string{"source", "status"}),
		SourceFetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Source fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		RecordsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "records_fetched_total",
			Help:      "Total number of floor records fetched",
		}),
		RecordErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "record_errors_total",
			Help:      "Total number of malformed floor records by field",
		}, []string{"field"}),

		StageRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "stage_runs_total",
			Help:      "Total number of processing stage runs by stage and status",
		}, []string{"stage", "status"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "stage_duration_seconds",
			Help:      "Processing stage duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"stage"}),
		DensifiedPoints: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "densified_points",
			Help:      "Number of points in the last densified series",
		}),
		WindowRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "window_runs_total",
			Help:      "Total number of rolling average computations by window",
		}, []string{"window"}),
		WindowDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "window_duration_seconds",
			Help:      "Rolling average duration per window in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"window"}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		VerificationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "verification_failures_total",
			Help:      "Total number of failed output verifications by check",
		}, []string{"check"}),
		LastSuccessfulPipeline: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSourceFetch records a source fetch.
func (m *Metrics) RecordSourceFetch(source, status string, seconds float64, records int) {
	m.SourceFetchesTotal.WithLabelValues(source, status).Inc()
	m.SourceFetchDuration.WithLabelValues(source).Observe(seconds)
	m.RecordsFetched.Add(float64(records))
}

// RecordStage records a processing stage run.
func (m *Metrics) RecordStage(stage, status string, seconds float64) {
	m.StageRunsTotal.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordDensifiedPoints updates the densified series size gauge.
func (m *Metrics) RecordDensifiedPoints(n int) {
	m.DensifiedPoints.Set(float64(n))
}

// RecordWindow records one rolling average computation for a window of
// the given hours, labelled like "4h".
func (m *Metrics) RecordWindow(hours int, seconds float64) {
	label := strconv.Itoa(hours) + "h"
	m.WindowRunsTotal.WithLabelValues(label).Inc()
	m.WindowDuration.WithLabelValues(label).Observe(seconds)
}

// RecordSourceFetch records a source fetch on DefaultMetrics.
func RecordSourceFetch(source, status string, seconds float64, records int) {
	DefaultMetrics.RecordSourceFetch(source, status, seconds, records)
}

// RecordMalformed increments the malformed record counter.
func RecordMalformed(field string) {
	DefaultMetrics.RecordErrors.WithLabelValues(field).Inc()
}

// RecordStage records a processing stage run on DefaultMetrics.
func RecordStage(stage, status string, seconds float64) {
	DefaultMetrics.RecordStage(stage, status, seconds)
}

// RecordDensifiedPoints updates the densified series size gauge on DefaultMetrics.
func RecordDensifiedPoints(n int) {
	DefaultMetrics.RecordDensifiedPoints(n)
}

// RecordWindow records a rolling average computation on DefaultMetrics.
func RecordWindow(hours int, seconds float64) {
	DefaultMetrics.RecordWindow(hours, seconds)
}

// RecordPipelineRun records a pipeline run; unixSeconds is only used on success.
func RecordPipelineRun(status string, unixSeconds int64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		DefaultMetrics.LastSuccessfulPipeline.Set(float64(unixSeconds))
	}
}

// RecordVerificationFailure increments the verification failure counter.
func RecordVerificationFailure(check string) {
	DefaultMetrics.VerificationFailures.WithLabelValues(check).Inc()
}
