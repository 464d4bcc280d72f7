package providers

import (
	"runboard/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncSubmissions(board, outcome string)
	IncSnapshotsSaved()
	IncRunsFinished(reason string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	submissions         *prometheus.CounterVec
	snapshotsSaved      prometheus.Counter
	runsFinished        *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSubmissions(board, outcome string) {
	m.submissions.WithLabelValues(board, outcome).Inc()
}

func (m *MetricsProvider) IncSnapshotsSaved() {
	m.snapshotsSaved.Inc()
}

func (m *MetricsProvider) IncRunsFinished(reason string) {
	m.runsFinished.WithLabelValues(reason).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "runboard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "runboard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "runboard_cache_hits_total",
			Help: "Total number of leaderboard cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "runboard_cache_misses_total",
			Help: "Total number of leaderboard cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "runboard_persistence_duration_seconds",
			Help:    "Duration of blob save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "runboard_submissions_total",
			Help: "Leaderboard submissions by board and outcome",
		}, []string{"board", "outcome"}),

		snapshotsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "runboard_snapshots_saved_total",
			Help: "Run summary snapshots written",
		}),

		runsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "runboard_runs_finished_total",
			Help: "Finished runs by reason",
		}, []string{"reason"}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSubmissions(_, _ string)                       {}
func (n *noopMetrics) IncSnapshotsSaved()                               {}
func (n *noopMetrics) IncRunsFinished(_ string)                         {}
