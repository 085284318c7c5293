package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/aryszka/jobqueue"
	lru "github.com/hashicorp/golang-lru/v2"
	ot "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	log "github.com/sirupsen/logrus"
	"github.com/zalando/pagemux/endpoint"
	"github.com/zalando/pagemux/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxCachedPages = 4096

	compileSpanName = "compile_page"
)

// Compiler turns a page descriptor into a compiled page. Implementations
// are provided by the embedding application. Compiling typically parses and
// translates the page source, so a single call may take long.
type Compiler interface {
	Compile(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error)

func (f CompilerFunc) Compile(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error) {
	return f(ctx, d, md)
}

// Loader yields the compiled page of a descriptor. Load blocks until the
// page is available: a cached page returns immediately, otherwise the call
// waits for the compilation to finish. Callers must not rely on immediacy.
//
// Implementations must be safe for concurrent use, must collapse concurrent
// loads of the same page into one compilation, and must not return a page
// without an endpoint on success.
type Loader interface {
	Load(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error)
}

// LoaderOptions configure a caching loader.
type LoaderOptions struct {

	// Compiler performs the page compilations. Required.
	Compiler Compiler

	// MaxCachedPages bounds the number of compiled pages kept in memory,
	// evicting the least recently used page first. Defaults to 4096.
	MaxCachedPages int

	// MaxConcurrentCompiles limits how many compilations may run at the
	// same time. Zero means no limit.
	MaxConcurrentCompiles int

	// MaxQueuedCompiles defines how many compilations may wait for a free
	// slot when MaxConcurrentCompiles is set. Defaults to infinite.
	MaxQueuedCompiles int

	// CompileTimeout defines how long a compilation may wait for a free
	// slot when MaxConcurrentCompiles is set. Defaults to infinite.
	CompileTimeout time.Duration

	// Metrics collects the compile and cache measurements. Defaults to
	// the void backend.
	Metrics metrics.Metrics

	// Tracer creates the spans of the compilation waits. Defaults to the
	// opentracing global tracer.
	Tracer ot.Tracer
}

// CachingLoader is the default Loader. It caches compiled pages, collapses
// concurrent loads of the same page into a single compilation, and can
// bound the number of compilations running at the same time.
//
// An aborted request does not cancel the compilation it triggered: the
// result still populates the cache for later requests. Only the waiting is
// given up, Load then returns the error of the request context.
type CachingLoader struct {
	compiler Compiler
	cache    *lru.Cache[string, *Page]
	flights  singleflight.Group
	queue    *jobqueue.Stack
	metrics  metrics.Metrics
	tracer   ot.Tracer
}

var _ Loader = &CachingLoader{}

// NewLoader creates a caching loader. It panics when the options contain no
// compiler.
func NewLoader(o LoaderOptions) *CachingLoader {
	if o.Compiler == nil {
		panic("loader created without a compiler")
	}

	if o.MaxCachedPages <= 0 {
		o.MaxCachedPages = defaultMaxCachedPages
	}

	if o.Metrics == nil {
		o.Metrics = metrics.Default
	}

	if o.Tracer == nil {
		o.Tracer = ot.GlobalTracer()
	}

	cache, _ := lru.New[string, *Page](o.MaxCachedPages)

	l := &CachingLoader{
		compiler: o.Compiler,
		cache:    cache,
		metrics:  o.Metrics,
		tracer:   o.Tracer,
	}

	if o.MaxConcurrentCompiles > 0 {
		l.queue = jobqueue.With(jobqueue.Options{
			MaxConcurrency: o.MaxConcurrentCompiles,
			MaxStackSize:   o.MaxQueuedCompiles,
			Timeout:        o.CompileTimeout,
		})
	}

	return l
}

// Load returns the compiled page of the descriptor, compiling it on the
// first call. Concurrent loads of the same page share one compilation and
// observe the same result or the same error. Errors are not cached: a later
// load compiles again.
func (l *CachingLoader) Load(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error) {
	key := d.Key()
	if p, ok := l.cache.Get(key); ok {
		l.metrics.IncCacheHit()
		return p, nil
	}

	l.metrics.IncCacheMiss()

	span := l.startSpan(ctx, key)
	defer span.Finish()

	// The compilation is shared and populates the cache, it must not be
	// cancelled by the request that happened to trigger it.
	flightCtx := context.WithoutCancel(ctx)
	c := l.flights.DoChan(key, func() (any, error) {
		return l.compile(flightCtx, d, md)
	})

	select {
	case res := <-c:
		if res.Err != nil {
			ext.Error.Set(span, true)
			return nil, res.Err
		}

		return res.Val.(*Page), nil
	case <-ctx.Done():
		ext.Error.Set(span, true)
		return nil, ctx.Err()
	}
}

func (l *CachingLoader) compile(ctx context.Context, d *Descriptor, md *endpoint.Metadata) (*Page, error) {
	key := d.Key()

	if l.queue != nil {
		done, err := l.queue.Wait()
		if err != nil {
			return nil, fmt.Errorf("compiling page %s: %w", key, err)
		}
		defer done()
	}

	start := time.Now()
	p, err := l.compiler.Compile(ctx, d, md)
	if err != nil {
		l.metrics.IncCompileError(key)
		log.Errorf("failed to compile page %s: %v", key, err)
		return nil, fmt.Errorf("compiling page %s: %w", key, err)
	}

	if p == nil || p.Endpoint == nil {
		l.metrics.IncCompileError(key)
		return nil, fmt.Errorf("compiler returned no endpoint for page %s", key)
	}

	l.metrics.MeasureCompile(key, start)
	l.cache.Add(key, p)
	log.Infof("compiled page %s in %v", key, time.Since(start))
	return p, nil
}

func (l *CachingLoader) startSpan(ctx context.Context, page string) ot.Span {
	spanOpts := []ot.StartSpanOption{ot.Tags{
		string(ext.Component): "pagemux",
		"page":                page,
	}}
	if parent := ot.SpanFromContext(ctx); parent != nil {
		spanOpts = append(spanOpts, ot.ChildOf(parent.Context()))
	}
	return l.tracer.StartSpan(compileSpanName, spanOpts...)
}

// Close tears down the compile queue. Compilations waiting for a slot are
// rejected, already cached pages stay available.
func (l *CachingLoader) Close() {
	if l.queue != nil {
		l.queue.Close()
	}
}
