package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Media resolution outcomes.
const (
	MediaCacheHit   = "cache_hit"
	MediaDownloaded = "downloaded"
	MediaFailed     = "failed"
)

// Metrics holds the sync metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// FetchDuration observes CMS listing requests per content type.
	FetchDuration *prometheus.HistogramVec
	// FetchedRecords counts records returned per content type.
	FetchedRecords *prometheus.CounterVec
	// MediaResolutions counts media descriptors by outcome.
	MediaResolutions *prometheus.CounterVec
	// NodeOperations counts node store mutations by operation.
	NodeOperations *prometheus.CounterVec
	// Runs counts sync runs by status.
	Runs *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cms_sync_fetch_duration_seconds",
			Help:    "Duration of CMS listing requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"content_type"}),
		FetchedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_sync_fetched_records_total",
			Help: "Total number of records fetched from the CMS",
		}, []string{"content_type"}),
		MediaResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_sync_media_resolutions_total",
			Help: "Total number of media descriptors resolved, by outcome",
		}, []string{"outcome"}),
		NodeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_sync_node_operations_total",
			Help: "Total number of node store mutations",
		}, []string{"operation"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_sync_runs_total",
			Help: "Total number of sync runs",
		}, []string{"status"}),
	}

	reg.MustRegister(m.FetchDuration, m.FetchedRecords, m.MediaResolutions, m.NodeOperations, m.Runs)
	return m
}

// ObserveFetch records one listing request.
func (m *Metrics) ObserveFetch(contentType string, records int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(contentType).Observe(elapsed.Seconds())
	m.FetchedRecords.WithLabelValues(contentType).Add(float64(records))
}

// MediaResolved records the outcome of one media descriptor.
func (m *Metrics) MediaResolved(outcome string) {
	if m == nil {
		return
	}
	m.MediaResolutions.WithLabelValues(outcome).Inc()
}

// NodeOperation records count mutations of the given kind.
func (m *Metrics) NodeOperation(operation string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.NodeOperations.WithLabelValues(operation).Add(float64(count))
}

// RunFinished records a completed or failed run.
func (m *Metrics) RunFinished(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Runs.WithLabelValues(status).Inc()
}
