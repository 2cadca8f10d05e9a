package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

const namespace = "tasktalk"

// Metrics owns its registry so several instances (tests, servers) never
// collide on registration. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	messagesHandled *prometheus.CounterVec
	handleFailures  *prometheus.CounterVec
	handleDuration  prometheus.Histogram
	httpRequests    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		messagesHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "messages_handled_total",
				Help:      "Messages handled successfully, by intent category",
			},
			[]string{"category"},
		),
		handleFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "handle_failures_total",
				Help:      "Failed message handling attempts, by error kind",
			},
			[]string{"kind"},
		),
		handleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "handle_duration_seconds",
				Help:      "Time spent handling a message end to end",
				Buckets:   prometheus.DefBuckets,
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveMessage records the outcome of one handled message.
func (m *Metrics) ObserveMessage(category domain.Category, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.handleDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.handleFailures.WithLabelValues(domain.KindName(err)).Inc()
		return
	}
	m.messagesHandled.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
