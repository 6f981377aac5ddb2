package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metrics for the trading app.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	OrdersCreated    *prometheus.CounterVec   // labels: side
	OrdersRejected   *prometheus.CounterVec   // labels: side, reason
	StoreDuration    *prometheus.HistogramVec // labels: op
	ProviderRequests *prometheus.CounterVec   // labels: endpoint, result
	ProviderDuration *prometheus.HistogramVec // labels: endpoint
	CacheLookups     *prometheus.CounterVec   // labels: result
	PDFExports       prometheus.Counter
	HTTPRequests     *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration     *prometheus.HistogramVec // labels: method, route
}

// New registers and returns all metrics on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockapp_orders_created_total",
			Help: "Orders accepted and stored",
		}, []string{"side"}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockapp_orders_rejected_total",
			Help: "Orders rejected before or during storage",
		}, []string{"side", "reason"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockapp_store_duration_seconds",
			Help:    "Order store operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockapp_provider_requests_total",
			Help: "Market data provider requests",
		}, []string{"endpoint", "result"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockapp_provider_duration_seconds",
			Help:    "Market data provider latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockapp_quote_cache_lookups_total",
			Help: "Quote cache lookups by result",
		}, []string{"result"}),
		PDFExports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockapp_pdf_exports_total",
			Help: "Order history PDF exports",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockapp_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockapp_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersCreated,
		m.OrdersRejected,
		m.StoreDuration,
		m.ProviderRequests,
		m.ProviderDuration,
		m.CacheLookups,
		m.PDFExports,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// OrderCreated counts an accepted order
func (m *Metrics) OrderCreated(side string) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(side).Inc()
}

// OrderRejected counts a refused order by reason: null, validation or store
func (m *Metrics) OrderRejected(side, reason string) {
	if m == nil {
		return
	}
	m.OrdersRejected.WithLabelValues(side, reason).Inc()
}

// ObserveStore records the latency of a store operation started at start
func (m *Metrics) ObserveStore(op string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveProvider records one market data call and whether it failed
func (m *Metrics) ObserveProvider(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ProviderRequests.WithLabelValues(endpoint, result).Inc()
	m.ProviderDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// CacheLookup counts a quote cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// PDFExported counts a generated orders PDF
func (m *Metrics) PDFExported() {
	if m == nil {
		return
	}
	m.PDFExports.Inc()
}

// ObserveHTTP records one served request. route is the matched pattern.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
