package metrics

import (
	"strings"

	metrics "github.com/rcrowley/go-metrics"
)

func newUniformSample() metrics.Sample {
	return metrics.NewUniformSample(defaultUniformReservoirSize)
}

func newExpDecaySample() metrics.Sample {
	return metrics.NewExpDecaySample(defaultExpDecayReservoirSize, defaultExpDecayAlpha)
}

func createTimer(sample metrics.Sample) metrics.Timer {
	return metrics.NewCustomTimer(metrics.NewHistogram(sample), metrics.NewMeter())
}

// pageForKey makes a page key usable as a segment of a dotted metrics key.
func pageForKey(p string) string {
	p = strings.Trim(p, "/")
	p = strings.Replace(p, "/", "_", -1)
	p = strings.Replace(p, ".", "_", -1)
	p = strings.Replace(p, ":", "__", -1)
	return p
}

func keyPrefix(p string) string {
	if p == "" {
		p = promNamespace
	}

	if !strings.HasSuffix(p, ".") {
		p = p + "."
	}

	return p
}
