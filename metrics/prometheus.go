package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	promNamespace        = "pagemux"
	promCompileSubsystem = "compile"
	promCacheSubsystem   = "cache"
	promCustomSubsystem  = "custom"
)

// Prometheus implements the Prometheus metrics backend.
type Prometheus struct {
	compileM         *prometheus.HistogramVec
	compileErrorsM   *prometheus.CounterVec
	cacheM           *prometheus.CounterVec
	customHistogramM *prometheus.HistogramVec
	customCounterM   *prometheus.CounterVec
	customGaugeM     *prometheus.GaugeVec

	opts     Options
	registry *prometheus.Registry
	handler  http.Handler
}

var _ Metrics = &Prometheus{}

// NewPrometheus returns a new Prometheus metrics backend.
func NewPrometheus(opts Options) *Prometheus {
	namespace := promNamespace
	if opts.Prefix != "" {
		namespace = strings.TrimSuffix(opts.Prefix, ".")
	}

	if len(opts.HistogramBuckets) == 0 {
		opts.HistogramBuckets = prometheus.DefBuckets
	}

	compile := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: promCompileSubsystem,
		Name:      "duration_seconds",
		Help:      "Duration in seconds of compiling a page.",
		Buckets:   opts.HistogramBuckets,
	}, []string{"page"})

	compileErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: promCompileSubsystem,
		Name:      "error_total",
		Help:      "The total of failed page compilations.",
	}, []string{"page"})

	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: promCacheSubsystem,
		Name:      "events_total",
		Help:      "The total of compiled page cache lookups by result.",
	}, []string{"result"})

	customCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: promCustomSubsystem,
		Name:      "total",
		Help:      "Total number of custom metrics.",
	}, []string{"key"})
	customGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: promCustomSubsystem,
		Name:      "gauges",
		Help:      "Gauges number of custom metrics.",
	}, []string{"key"})
	customHistogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: promCustomSubsystem,
		Name:      "duration_seconds",
		Help:      "Duration in seconds of custom metrics.",
		Buckets:   opts.HistogramBuckets,
	}, []string{"key"})

	p := &Prometheus{
		compileM:         compile,
		compileErrorsM:   compileErrors,
		cacheM:           cache,
		customHistogramM: customHistogram,
		customCounterM:   customCounter,
		customGaugeM:     customGauge,

		registry: opts.PrometheusRegistry,
		opts:     opts,
	}

	if p.registry == nil {
		p.registry = prometheus.NewRegistry()
	}

	p.registerMetrics()
	return p
}

// sinceS returns the seconds passed since the start time until now.
func (p *Prometheus) sinceS(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func (p *Prometheus) registerMetrics() {
	p.registry.MustRegister(p.compileM)
	p.registry.MustRegister(p.compileErrorsM)
	p.registry.MustRegister(p.cacheM)
	p.registry.MustRegister(p.customCounterM)
	p.registry.MustRegister(p.customHistogramM)
	p.registry.MustRegister(p.customGaugeM)

	if p.opts.EnableRuntimeMetrics {
		p.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p.registry.MustRegister(collectors.NewGoCollector())
	}
}

// CreateHandler returns a handler exposing the registry in the Prometheus
// text format.
func (p *Prometheus) CreateHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) getHandler() http.Handler {
	if p.handler != nil {
		return p.handler
	}

	p.handler = p.CreateHandler()
	return p.handler
}

// RegisterHandler registers an endpoint on the mux that exposes the
// registry in the Prometheus text format.
func (p *Prometheus) RegisterHandler(path string, mux *http.ServeMux) {
	mux.Handle(path, p.getHandler())
}

// MeasureSince satisfies Metrics interface.
func (p *Prometheus) MeasureSince(key string, start time.Time) {
	p.customHistogramM.WithLabelValues(key).Observe(p.sinceS(start))
}

// IncCounter satisfies Metrics interface.
func (p *Prometheus) IncCounter(key string) {
	p.customCounterM.WithLabelValues(key).Inc()
}

// IncCounterBy satisfies Metrics interface.
func (p *Prometheus) IncCounterBy(key string, value int64) {
	p.customCounterM.WithLabelValues(key).Add(float64(value))
}

// UpdateGauge satisfies Metrics interface.
func (p *Prometheus) UpdateGauge(key string, v float64) {
	p.customGaugeM.WithLabelValues(key).Set(v)
}

// MeasureCompile satisfies Metrics interface.
func (p *Prometheus) MeasureCompile(page string, start time.Time) {
	p.compileM.WithLabelValues(page).Observe(p.sinceS(start))
}

// IncCompileError satisfies Metrics interface.
func (p *Prometheus) IncCompileError(page string) {
	p.compileErrorsM.WithLabelValues(page).Inc()
}

// IncCacheHit satisfies Metrics interface.
func (p *Prometheus) IncCacheHit() {
	p.cacheM.WithLabelValues("hit").Inc()
}

// IncCacheMiss satisfies Metrics interface.
func (p *Prometheus) IncCacheMiss() {
	p.cacheM.WithLabelValues("miss").Inc()
}

func (p *Prometheus) Close() {}
