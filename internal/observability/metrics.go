package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the service's Prometheus instruments. All methods are
// nil-safe so wiring stays optional in tests.
type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	logLoadsTotal     *prometheus.CounterVec
	rerunsTotal       *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	chatForwardErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kronos_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kronos_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		logLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kronos_simulation_log_loads_total",
			Help: "Simulation log loads by the source that finally served them.",
		}, []string{"source"}),
		rerunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kronos_simulation_reruns_total",
			Help: "Rerun requests by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kronos_log_cache_hits_total",
			Help: "Total snapshot cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kronos_log_cache_misses_total",
			Help: "Total snapshot cache misses observed.",
		}),
		chatForwardErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kronos_chat_forward_errors_total",
			Help: "Failed chat forwards by upstream service.",
		}, []string{"service"}),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.logLoadsTotal,
		m.rerunsTotal,
		m.cacheHits,
		m.cacheMisses,
		m.chatForwardErrors,
	)

	return m
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// LogLoaded records which link of the retrieval chain finally served a load:
// remote, computed, cache, static or empty.
func (m *Metrics) LogLoaded(source string) {
	if m == nil {
		return
	}
	m.logLoadsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RerunFinished(outcome string) {
	if m == nil {
		return
	}
	m.rerunsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) ChatForwardFailed(service string) {
	if m == nil {
		return
	}
	m.chatForwardErrors.WithLabelValues(service).Inc()
}
