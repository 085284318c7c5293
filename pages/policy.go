package pages

import (
	"net/http"
	"time"

	"github.com/zalando/pagemux"
	"github.com/zalando/pagemux/endpoint"
	"github.com/zalando/pagemux/metrics"
)

// DefaultOrder schedules the compilation policy ahead of the typical
// metadata inspecting policies of a pipeline, which need the final compiled
// endpoints in place. The exact boundary is a configuration decision of the
// embedding pipeline.
const DefaultOrder = -1000

// PolicyOptions configure the compilation policy.
type PolicyOptions struct {

	// Loader loads the compiled pages. Required.
	Loader Loader

	// Order overrides the place of the policy in the pipeline. Zero
	// selects DefaultOrder.
	Order int

	// Metrics measures the candidate scans. Defaults to the void backend.
	Metrics metrics.Metrics
}

// Policy is the matching policy that compiles page endpoints at match time.
// It scans the candidate set of a request for valid slots whose endpoint
// metadata carries an uncompiled page descriptor, loads the compiled page
// and swaps the endpoint of the slot in place. Route values, slot order and
// the validity of the other slots stay untouched.
type Policy struct {
	loader  Loader
	order   int
	metrics metrics.Metrics
}

var (
	_ pagemux.Policy  = &Policy{}
	_ pagemux.Ordered = &Policy{}
)

// NewPolicy creates a compilation policy. It panics when the options
// contain no loader.
func NewPolicy(o PolicyOptions) *Policy {
	if o.Loader == nil {
		panic("page policy created without a loader")
	}

	if o.Order == 0 {
		o.Order = DefaultOrder
	}

	if o.Metrics == nil {
		o.Metrics = metrics.Default
	}

	return &Policy{loader: o.Loader, order: o.Order, metrics: o.Metrics}
}

// Name returns compilePages.
func (p *Policy) Name() string { return "compilePages" }

// Order places the policy in the pipeline, see DefaultOrder.
func (p *Policy) Order() int { return p.order }

// AppliesTo reports whether any of the registered endpoints still needs
// compiling.
func (p *Policy) AppliesTo(endpoints []*endpoint.Endpoint) bool {
	for _, e := range endpoints {
		if _, ok := pageDescriptor(e); ok {
			return true
		}
	}

	return false
}

// Apply scans the slots of the candidate set in ascending order and
// replaces the endpoint of every valid slot that carries an uncompiled page
// descriptor with the compiled page endpoint. Loading blocks until the page
// is available, the scan then continues with the next slot. The first load
// error aborts the scan and is returned unmodified, replacements already
// made stay in place.
func (p *Policy) Apply(req *http.Request, candidates *pagemux.CandidateSet) error {
	if req == nil {
		panic("page policy applied without a request")
	}

	if candidates == nil {
		panic("page policy applied to a nil candidate set")
	}

	start := time.Now()
	defer p.metrics.MeasureSince("pages.apply", start)

	for i := 0; i < candidates.Len(); i++ {
		if !candidates.Valid(i) {
			continue
		}

		e := candidates.Endpoint(i)
		d, ok := pageDescriptor(e)
		if !ok {
			continue
		}

		page, err := p.loader.Load(req.Context(), d, e.Metadata())
		if err != nil {
			return err
		}

		candidates.ReplaceEndpoint(i, page.Endpoint)
	}

	return nil
}

// pageDescriptor returns the page descriptor of an endpoint that is not
// compiled yet. Endpoints whose metadata also carries a page are compiled
// already and report false.
func pageDescriptor(e *endpoint.Endpoint) (*Descriptor, bool) {
	if e == nil {
		return nil, false
	}

	d, ok := endpoint.Of[*Descriptor](e.Metadata())
	if !ok {
		return nil, false
	}

	if _, compiled := endpoint.Of[*Page](e.Metadata()); compiled {
		return nil, false
	}

	return d, true
}
