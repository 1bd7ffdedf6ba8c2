// Package metrics provides Prometheus metrics for the duo finder services.
// A nil *Manager is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Matchmaking attempt outcomes.
const (
	OutcomeMatched  = "matched"
	OutcomeQueued   = "queued"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type Manager struct {
	namespace string
	registry  *prometheus.Registry

	matchmakingAttempts *prometheus.CounterVec
	matchScore          prometheus.Histogram
	queueWaiting        prometheus.Gauge
	queueSwept          prometheus.Counter
	notifications       *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
	oracleFallbacks     *prometheus.CounterVec
	feedPublishErrors   *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "duofinder",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchmakingAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matchmaking_attempts_total",
		Help:      "Matchmaking attempts by outcome",
	}, []string{"outcome"})

	m.matchScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_score",
		Help:      "Compatibility score of committed matches",
		Buckets:   prometheus.LinearBuckets(0.6, 0.05, 9),
	})

	m.queueWaiting = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "queue_waiting",
		Help:      "Live waiting queue entries at the last sweep",
	})

	m.queueSwept = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_swept_total",
		Help:      "Expired queue entries removed by sweeps",
	})

	m.notifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notifications_total",
		Help:      "Notification deliveries by channel and result",
	}, []string{"channel", "result"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"action"})

	m.oracleFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "oracle_fallbacks_total",
		Help:      "Text oracle calls answered with the fallback value",
	}, []string{"operation"})

	m.feedPublishErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "feed_publish_errors_total",
		Help:      "Change feed publish failures by sink",
	}, []string{"sink"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func (m *Manager) RecordMatchmakingAttempt(outcome string) {
	if m == nil {
		return
	}
	m.matchmakingAttempts.WithLabelValues(outcome).Inc()
}

func (m *Manager) ObserveMatchScore(score float64) {
	if m == nil {
		return
	}
	m.matchScore.Observe(score)
}

func (m *Manager) SetQueueWaiting(n int64) {
	if m == nil {
		return
	}
	m.queueWaiting.Set(float64(n))
}

func (m *Manager) AddQueueSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.queueSwept.Add(float64(n))
}

func (m *Manager) RecordNotification(channel string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}

func (m *Manager) RecordRateLimited(action string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(action).Inc()
}

func (m *Manager) RecordOracleFallback(operation string) {
	if m == nil {
		return
	}
	m.oracleFallbacks.WithLabelValues(operation).Inc()
}

func (m *Manager) RecordFeedPublishError(sink string) {
	if m == nil {
		return
	}
	m.feedPublishErrors.WithLabelValues(sink).Inc()
}

func (m *Manager) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the manager's registry.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
