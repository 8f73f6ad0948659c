package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/lexmart/pkg/live"
	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lexmart").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lexmart",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the application's Prometheus collectors. It serves as HTTP
// middleware and as the tooltip and live session observer.
//
// Metrics collected:
//   - lexmart_http_requests_total: requests by method, route and status
//   - lexmart_http_request_duration_seconds: request latency by method and route
//   - lexmart_tooltips_shown_total, lexmart_tooltips_hidden_total
//   - lexmart_tooltip_activations_cancelled_total: leave before the delay elapsed
//   - lexmart_tooltip_faults_total: reported faults by kind
//   - lexmart_tooltip_listeners: live resize/scroll subscriptions
//   - lexmart_live_sessions: open live sessions
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	tooltipsShown    prometheus.Counter
	tooltipsHidden   prometheus.Counter
	activationsAbort prometheus.Counter
	tooltipFaults    *prometheus.CounterVec
	tooltipListeners prometheus.Gauge
	liveSessions     prometheus.Gauge
}

var (
	_ tooltip.Observer     = (*Metrics)(nil)
	_ live.SessionObserver = (*Metrics)(nil)
)

// NewMetrics registers the collectors with the configured registry.
// Registering twice with the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		tooltipFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tooltip_faults_total",
			Help:        "Tooltip faults by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		tooltipsShown:    counter("tooltips_shown_total", "Tooltips made visible"),
		tooltipsHidden:   counter("tooltips_hidden_total", "Visible tooltips hidden"),
		activationsAbort: counter("tooltip_activations_cancelled_total", "Pending activations cancelled before the delay elapsed"),
		tooltipListeners: gauge("tooltip_listeners", "Live viewport resize and scroll subscriptions"),
		liveSessions:     gauge("live_sessions", "Open live sessions"),
	}
}

// Handler records request count and latency. The route label is the chi
// route pattern, so path parameters do not create new series.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func (m *Metrics) Shown()                     { m.tooltipsShown.Inc() }
func (m *Metrics) Hidden()                    { m.tooltipsHidden.Inc() }
func (m *Metrics) ActivationCancelled()       { m.activationsAbort.Inc() }
func (m *Metrics) ListenersChanged(delta int) { m.tooltipListeners.Add(float64(delta)) }
func (m *Metrics) SessionStarted()            { m.liveSessions.Inc() }
func (m *Metrics) SessionEnded()              { m.liveSessions.Dec() }

// Fault counts err under a fixed kind label.
func (m *Metrics) Fault(err error) {
	m.tooltipFaults.WithLabelValues(categorizeFault(err)).Inc()
}

// categorizeFault keeps the kind label low-cardinality.
func categorizeFault(err error) string {
	switch {
	case errors.Is(err, tooltip.ErrGeometryUnavailable):
		return "geometry_unavailable"
	case errors.Is(err, tooltip.ErrInvalidPlacement):
		return "invalid_placement"
	default:
		return "other"
	}
}
