package metrics

import (
	"net/http"
	"time"
)

// All collects all metrics in both the CodaHale and the Prometheus backend.
type All struct {
	prometheus        *Prometheus
	codaHale          *CodaHale
	prometheusHandler http.Handler
	codaHaleHandler   http.Handler
}

var _ Metrics = &All{}

func NewAll(o Options) *All {
	return &All{
		prometheus: NewPrometheus(o),
		codaHale:   NewCodaHale(o),
	}
}

func (a *All) MeasureSince(key string, start time.Time) {
	a.prometheus.MeasureSince(key, start)
	a.codaHale.MeasureSince(key, start)
}

func (a *All) IncCounter(key string) {
	a.prometheus.IncCounter(key)
	a.codaHale.IncCounter(key)
}

func (a *All) IncCounterBy(key string, value int64) {
	a.prometheus.IncCounterBy(key, value)
	a.codaHale.IncCounterBy(key, value)
}

func (a *All) UpdateGauge(key string, v float64) {
	a.prometheus.UpdateGauge(key, v)
	a.codaHale.UpdateGauge(key, v)
}

func (a *All) MeasureCompile(page string, start time.Time) {
	a.prometheus.MeasureCompile(page, start)
	a.codaHale.MeasureCompile(page, start)
}

func (a *All) IncCompileError(page string) {
	a.prometheus.IncCompileError(page)
	a.codaHale.IncCompileError(page)
}

func (a *All) IncCacheHit() {
	a.prometheus.IncCacheHit()
	a.codaHale.IncCacheHit()
}

func (a *All) IncCacheMiss() {
	a.prometheus.IncCacheMiss()
	a.codaHale.IncCacheMiss()
}

// RegisterHandler serves the Prometheus text format by default and the
// CodaHale JSON format when the request accepts application/codahale+json.
func (a *All) RegisterHandler(path string, mux *http.ServeMux) {
	a.prometheusHandler = a.prometheus.getHandler()
	a.codaHaleHandler = a.codaHale.getHandler(path)
	mux.Handle(path, a.newHandler())
}

func (a *All) newHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Accept") == "application/codahale+json" {
			a.codaHaleHandler.ServeHTTP(w, req)
		} else {
			a.prometheusHandler.ServeHTTP(w, req)
		}
	})
}

func (a *All) Close() {
	a.codaHale.Close()
	a.prometheus.Close()
}
