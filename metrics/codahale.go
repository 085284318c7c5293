package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

const (
	statsRefreshDuration = 5 * time.Second

	defaultUniformReservoirSize  = 1024
	defaultExpDecayReservoirSize = 1028
	defaultExpDecayAlpha         = 0.015
)

// CodaHale implements the Metrics interface in DropWizard's CodaHale metrics
// format.
type CodaHale struct {
	reg           metrics.Registry
	createTimer   func() metrics.Timer
	createCounter func() metrics.Counter
	createGauge   func() metrics.GaugeFloat64
	options       Options
	handler       http.Handler
	quit          chan struct{}
}

var _ Metrics = &CodaHale{}

// NewCodaHale returns a new CodaHale backend of metrics.
func NewCodaHale(o Options) *CodaHale {
	c := &CodaHale{}
	c.reg = metrics.NewRegistry()
	c.quit = make(chan struct{})

	var createSample func() metrics.Sample
	if o.UseExpDecaySample {
		createSample = newExpDecaySample
	} else {
		createSample = newUniformSample
	}
	c.createTimer = func() metrics.Timer { return createTimer(createSample()) }

	c.createCounter = metrics.NewCounter
	c.createGauge = metrics.NewGaugeFloat64
	c.options = o

	if o.EnableRuntimeMetrics {
		metrics.RegisterRuntimeMemStats(c.reg)
		go c.collect(metrics.CaptureRuntimeMemStatsOnce)
	}

	return c
}

// NewVoid returns a backend that drops all measurements.
func NewVoid() *CodaHale {
	c := &CodaHale{}
	c.reg = metrics.NewRegistry()
	c.quit = make(chan struct{})
	c.createTimer = func() metrics.Timer { return metrics.NilTimer{} }
	c.createCounter = func() metrics.Counter { return metrics.NilCounter{} }
	c.createGauge = func() metrics.GaugeFloat64 { return metrics.NilGaugeFloat64{} }
	return c
}

func (c *CodaHale) collect(capture func(metrics.Registry)) {
	for {
		select {
		case <-time.After(statsRefreshDuration):
			capture(c.reg)
		case <-c.quit:
			return
		}
	}
}

// Close stops the background collection of the runtime metrics.
func (c *CodaHale) Close() {
	close(c.quit)
}

func (c *CodaHale) getTimer(key string) metrics.Timer {
	return c.reg.GetOrRegister(key, c.createTimer).(metrics.Timer)
}

func (c *CodaHale) updateTimer(key string, d time.Duration) {
	if t := c.getTimer(key); t != nil {
		t.Update(d)
	}
}

func (c *CodaHale) measureSince(key string, start time.Time) {
	d := time.Since(start)
	go c.updateTimer(key, d)
}

func (c *CodaHale) MeasureSince(key string, start time.Time) {
	c.measureSince(key, start)
}

func (c *CodaHale) getGauge(key string) metrics.GaugeFloat64 {
	return c.reg.GetOrRegister(key, c.createGauge).(metrics.GaugeFloat64)
}

func (c *CodaHale) UpdateGauge(key string, v float64) {
	if g := c.getGauge(key); g != nil {
		g.Update(v)
	}
}

func (c *CodaHale) getCounter(key string) metrics.Counter {
	return c.reg.GetOrRegister(key, c.createCounter).(metrics.Counter)
}

func (c *CodaHale) incCounter(key string, value int64) {
	go func() {
		if c := c.getCounter(key); c != nil {
			c.Inc(value)
		}
	}()
}

func (c *CodaHale) IncCounter(key string) {
	c.incCounter(key, 1)
}

func (c *CodaHale) IncCounterBy(key string, value int64) {
	c.incCounter(key, value)
}

func (c *CodaHale) MeasureCompile(page string, start time.Time) {
	c.measureSince(fmt.Sprintf(KeyCompile, pageForKey(page)), start)
}

func (c *CodaHale) IncCompileError(page string) {
	c.incCounter(fmt.Sprintf(KeyCompileError, pageForKey(page)), 1)
}

func (c *CodaHale) IncCacheHit() {
	c.incCounter(KeyCacheHit, 1)
}

func (c *CodaHale) IncCacheMiss() {
	c.incCounter(KeyCacheMiss, 1)
}

// RegisterHandler registers an endpoint on the mux that exposes the current
// metrics values as JSON. Individual metrics can be queried by appending
// their key to the path.
func (c *CodaHale) RegisterHandler(path string, mux *http.ServeMux) {
	mux.Handle(path, c.getHandler(path))
}

func (c *CodaHale) CreateHandler(path string) http.Handler {
	return &codaHaleMetricsHandler{path: path, registry: c.reg, prefix: keyPrefix(c.options.Prefix)}
}

func (c *CodaHale) getHandler(path string) http.Handler {
	if c.handler != nil {
		return c.handler
	}

	c.handler = c.CreateHandler(path)
	return c.handler
}

type codaHaleMetricsHandler struct {
	path     string
	prefix   string
	registry metrics.Registry
}

func (h *codaHaleMetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	key := strings.Trim(strings.TrimPrefix(r.URL.Path, h.path), "/")
	m := filterMetrics(h.registry, h.prefix, key)
	if len(m) == 0 {
		http.NotFound(w, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(m)
}

func filterMetrics(reg metrics.Registry, prefix, key string) pageMetrics {
	m := make(pageMetrics)

	canonicalKey := strings.TrimPrefix(key, prefix)
	if v := reg.Get(canonicalKey); v != nil {
		m[key] = v
		return m
	}

	reg.Each(func(name string, i interface{}) {
		if key == "" || strings.HasPrefix(name, canonicalKey) {
			m[prefix+name] = i
		}
	})

	return m
}

type pageMetrics map[string]interface{}

func (pm pageMetrics) MarshalJSON() ([]byte, error) {
	data := make(map[string]map[string]interface{})
	for name, metric := range pm {
		values := make(map[string]interface{})
		var family string

		switch m := metric.(type) {
		case metrics.GaugeFloat64:
			family = "gauges"
			values["value"] = m.Snapshot().Value()
		case metrics.Timer:
			family = "timers"
			t := m.Snapshot()
			ps := t.Percentiles([]float64{0.5, 0.75, 0.95, 0.99, 0.999})
			values["count"] = t.Count()
			values["min"] = t.Min()
			values["max"] = t.Max()
			values["mean"] = t.Mean()
			values["stddev"] = t.StdDev()
			values["median"] = ps[0]
			values["75%"] = ps[1]
			values["95%"] = ps[2]
			values["99%"] = ps[3]
			values["99.9%"] = ps[4]
			values["1m.rate"] = t.Rate1()
			values["5m.rate"] = t.Rate5()
			values["15m.rate"] = t.Rate15()
			values["mean.rate"] = t.RateMean()
		case metrics.Counter:
			family = "counters"
			values["count"] = m.Snapshot().Count()
		default:
			family = "unknown"
			values["error"] = fmt.Sprintf("unknown metrics type %T", m)
		}

		if data[family] == nil {
			data[family] = make(map[string]interface{})
		}
		data[family][name] = values
	}

	return json.Marshal(data)
}
