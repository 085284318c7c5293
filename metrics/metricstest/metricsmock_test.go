package metricstest

import (
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/zalando/pagemux/metrics"
)

func TestMockMetrics(t *testing.T) {
	m := &MockMetrics{}

	t.Run("measure-since", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			key := "test-measure-since"
			start := time.Now()
			time.Sleep(2 * time.Second)
			m.MeasureSince(key, start)

			if a, ok := m.Measures(key); !ok {
				t.Fatalf("Failed to find measure %q", key)
			} else if len(a) != 1 {
				t.Fatalf("Failed to have one measurement, got: %d", len(a))
			} else if a[0] != 2*time.Second {
				t.Fatalf("Failed to get the right duration: %s", a[0])
			}
		})
	})

	t.Run("inc-counter", func(t *testing.T) {
		key := "test-inc-counter"
		m.IncCounter(key)
		if i, ok := m.Counter(key); !ok {
			t.Fatalf("Failed to find counter %q", key)
		} else if i != 1 {
			t.Fatalf("Failed to get the right value after inc: %d", i)
		}

		m.IncCounterBy(key, 2)
		if i, ok := m.Counter(key); !ok {
			t.Fatalf("Failed to find counter %q", key)
		} else if i != 3 {
			t.Fatalf("Failed to get the right value after inc: %d", i)
		}
	})

	t.Run("measure-compile", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			page := "orders:/list"
			key := fmt.Sprintf(metrics.KeyCompile, page)

			now := time.Now()
			time.Sleep(time.Second)

			m.MeasureCompile(page, now)

			if a, ok := m.Measures(key); !ok {
				t.Fatalf("Failed to find measure %q for page %q", key, page)
			} else if len(a) != 1 {
				t.Fatalf("Failed to get the right number of measures: %d", len(a))
			} else if a[0] != time.Second {
				t.Fatalf("Failed to get the right duration: %s", a[0])
			}
		})
	})

	t.Run("compile-error", func(t *testing.T) {
		page := "/broken"
		m.IncCompileError(page)

		key := fmt.Sprintf(metrics.KeyCompileError, page)
		if i, ok := m.Counter(key); !ok {
			t.Fatalf("Failed to find counter %q", key)
		} else if i != 1 {
			t.Fatalf("Failed to get the right value after inc: %d", i)
		}
	})

	t.Run("cache-events", func(t *testing.T) {
		m.IncCacheHit()
		m.IncCacheHit()
		m.IncCacheMiss()

		if i, _ := m.Counter(metrics.KeyCacheHit); i != 2 {
			t.Fatalf("Failed to count cache hits: %d", i)
		}

		if i, _ := m.Counter(metrics.KeyCacheMiss); i != 1 {
			t.Fatalf("Failed to count cache misses: %d", i)
		}
	})

	t.Run("gauge", func(t *testing.T) {
		key := "my-gauge"

		m.UpdateGauge(key, 5.4)

		if f, ok := m.Gauge(key); !ok {
			t.Fatalf("Failed to find gauge %q", key)
		} else if f != 5.4 {
			t.Fatalf("Failed to get the right value after update: %0.2f", f)
		}
	})
}
