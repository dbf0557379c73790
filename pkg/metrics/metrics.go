package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	namespace  string
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	storeOpCnt *prometheus.CounterVec
	storeOpDur *prometheus.HistogramVec
	seedCnt    *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	storeOpCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "store_operations_total"}, []string{"collection", "op", "result"})
	storeOpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "store_operation_duration_seconds", Buckets: buckets}, []string{"collection", "op"})
	seedCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "store_seeded_records_total"}, []string{"collection"})
	r.MustRegister(storeOpCnt, storeOpDur, seedCnt)

	return &Metrics{
		registry:   r,
		namespace:  ns,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		httpInfl:   httpInfl,
		storeOpCnt: storeOpCnt,
		storeOpDur: storeOpDur,
		seedCnt:    seedCnt,
	}
}

// StoreOpDone records one finished collection operation
func (m *Metrics) StoreOpDone(collection, op string, since time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOpCnt.WithLabelValues(collection, op, result).Inc()
	m.storeOpDur.WithLabelValues(collection, op).Observe(time.Since(since).Seconds())
}

// Seeded records how many seed records were written for a collection
func (m *Metrics) Seeded(collection string, n int) {
	m.seedCnt.WithLabelValues(collection).Add(float64(n))
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
