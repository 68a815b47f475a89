package providers

import (
	"launchpad/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncHistoryFetches(outcome string)
	ObserveFetchDuration(duration time.Duration)
	IncTokenSubmissions(outcome string)
	ObservePersistenceDuration(duration time.Duration)
	SetHistoryRecords(count int)
	SetRegistered(registered bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	historyFetches      *prometheus.CounterVec
	fetchDuration       prometheus.Histogram
	tokenSubmissions    *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	historyRecords      prometheus.Gauge
	registered          prometheus.Gauge
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

func (m *MetricsProvider) IncHistoryFetches(outcome string) {
	m.historyFetches.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(duration time.Duration) {
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncTokenSubmissions(outcome string) {
	m.tokenSubmissions.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetHistoryRecords(count int) {
	m.historyRecords.Set(float64(count))
}

func (m *MetricsProvider) SetRegistered(registered bool) {
	if registered {
		m.registered.Set(1)
		return
	}
	m.registered.Set(0)
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
			Name: "launchpad_requests_total",
			Help: "Total number of control surface HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "launchpad_request_duration_seconds",
			Help:    "Control surface request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "launchpad_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "launchpad_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		historyFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_history_fetches_total",
			Help: "Remote history fetches by outcome",
		}, []string{"outcome"}),

		fetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "launchpad_history_fetch_duration_seconds",
			Help:    "Duration of remote history fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		tokenSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_token_submissions_total",
			Help: "Device token submissions by outcome",
		}, []string{"outcome"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "launchpad_persistence_duration_seconds",
			Help:    "Duration of history cache writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		historyRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "launchpad_history_records",
			Help: "Number of notification records currently held",
		}),

		registered: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "launchpad_apns_registered",
			Help: "1 when the platform reports the device registered for push",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncHistoryFetches(_ string)                       {}
func (n *noopMetrics) ObserveFetchDuration(_ time.Duration)             {}
func (n *noopMetrics) IncTokenSubmissions(_ string)                     {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetHistoryRecords(_ int)                          {}
func (n *noopMetrics) SetRegistered(_ bool)                             {}
