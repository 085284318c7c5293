// Package metrics implements collection of the performance metrics of page
// compilation and matching, with a CodaHale and a Prometheus backend.
//
// The collected metrics include the per-page compilation time, the number of
// failed compilations and the hit and miss counts of the compiled page
// cache. For the keys of the CodaHale metrics see the Key* constants.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CodaHale metric keys.
const (
	KeyCompile      = "compile.%s"
	KeyCompileError = "errors.compile.%s"
	KeyCacheHit     = "cache.hit"
	KeyCacheMiss    = "cache.miss"
)

// Options for initializing the metrics backends.
type Options struct {

	// Prefix of the CodaHale metrics keys and namespace of the Prometheus
	// metrics. Defaults to "pagemux".
	Prefix string

	// HistogramBuckets of the Prometheus duration histograms. Defaults to
	// prometheus.DefBuckets.
	HistogramBuckets []float64

	// PrometheusRegistry can be set to share a registry with the embedding
	// application. A new registry is created when nil.
	PrometheusRegistry *prometheus.Registry

	// UseExpDecaySample switches the CodaHale timers from a uniform to an
	// exponentially decaying sample.
	UseExpDecaySample bool

	// EnableRuntimeMetrics registers collectors for the Go runtime in
	// addition to the page metrics.
	EnableRuntimeMetrics bool
}

// Metrics is the generic collection interface of the package, implemented by
// the CodaHale, Prometheus, All and Void backends.
type Metrics interface {

	// generic metrics
	MeasureSince(key string, start time.Time)
	IncCounter(key string)
	IncCounterBy(key string, value int64)
	UpdateGauge(key string, value float64)

	// page compilation metrics
	MeasureCompile(page string, start time.Time)
	IncCompileError(page string)
	IncCacheHit()
	IncCacheMiss()
}

// Default is used by components that were not configured with a specific
// collector. Void drops all measurements.
var (
	Default Metrics
	Void    Metrics
)

func init() {
	Void = NewVoid()
	Default = Void
}
