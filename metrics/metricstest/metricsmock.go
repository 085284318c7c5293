package metricstest

import (
	"fmt"
	"sync"
	"time"

	"github.com/zalando/pagemux/metrics"
)

// MockMetrics is a Metrics implementation for tests, collecting all
// measurements in plain maps guarded by a mutex.
type MockMetrics struct {
	Prefix string

	// Now can be set to a fixed time to make duration measurements
	// deterministic.
	Now time.Time

	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	measures map[string][]time.Duration
}

var _ metrics.Metrics = &MockMetrics{}

//
// Public thread safe access to metrics
//

func (m *MockMetrics) WithCounters(f func(counters map[string]int64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	f(m.counters)
}

func (m *MockMetrics) WithGauges(f func(gauges map[string]float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gauges == nil {
		m.gauges = make(map[string]float64)
	}
	f(m.gauges)
}

func (m *MockMetrics) WithMeasures(f func(measures map[string][]time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.measures == nil {
		m.measures = make(map[string][]time.Duration)
	}
	f(m.measures)
}

//
// Interface Metrics
//

func (m *MockMetrics) MeasureSince(key string, start time.Time) {
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}

	key = m.Prefix + key
	m.WithMeasures(func(measures map[string][]time.Duration) {
		measures[key] = append(measures[key], now.Sub(start))
	})
}

func (m *MockMetrics) IncCounter(key string) {
	m.IncCounterBy(key, 1)
}

func (m *MockMetrics) IncCounterBy(key string, value int64) {
	key = m.Prefix + key
	m.WithCounters(func(counters map[string]int64) {
		counters[key] += value
	})
}

func (m *MockMetrics) UpdateGauge(key string, value float64) {
	key = m.Prefix + key
	m.WithGauges(func(gauges map[string]float64) {
		gauges[key] = value
	})
}

func (m *MockMetrics) MeasureCompile(page string, start time.Time) {
	m.MeasureSince(fmt.Sprintf(metrics.KeyCompile, page), start)
}

func (m *MockMetrics) IncCompileError(page string) {
	m.IncCounter(fmt.Sprintf(metrics.KeyCompileError, page))
}

func (m *MockMetrics) IncCacheHit() {
	m.IncCounter(metrics.KeyCacheHit)
}

func (m *MockMetrics) IncCacheMiss() {
	m.IncCounter(metrics.KeyCacheMiss)
}

//
// Query helpers
//

func (m *MockMetrics) Counter(key string) (v int64, ok bool) {
	m.WithCounters(func(counters map[string]int64) {
		v, ok = counters[m.Prefix+key]
	})

	return
}

func (m *MockMetrics) Gauge(key string) (v float64, ok bool) {
	m.WithGauges(func(gauges map[string]float64) {
		v, ok = gauges[m.Prefix+key]
	})

	return
}

func (m *MockMetrics) Measures(key string) (d []time.Duration, ok bool) {
	m.WithMeasures(func(measures map[string][]time.Duration) {
		d, ok = measures[m.Prefix+key]
	})

	return
}
