package pagemux

import (
	"net/http"

	"github.com/zalando/pagemux/endpoint"
)

// Policy is a single step of the matching pipeline. Policies inspect and
// narrow the candidate set of a request before the final match is selected.
type Policy interface {

	// Name returns the diagnostic name of the policy.
	Name() string

	// AppliesTo is called once while building a pipeline, with the
	// complete list of registered endpoints. It lets policies that only
	// act on endpoints with certain metadata step aside when no such
	// endpoint is registered. Returning true does not oblige the policy
	// to change anything at request time.
	AppliesTo(endpoints []*endpoint.Endpoint) bool

	// Apply runs on the request path. It may invalidate slots, replace
	// their endpoints or leave the set unchanged. A non-nil error aborts
	// matching for this request.
	Apply(req *http.Request, candidates *CandidateSet) error
}

// Ordered is implemented by policies that need a specific place in the
// pipeline. Policies run in ascending order; policies that do not implement
// Ordered run at order 0.
type Ordered interface {
	Order() int
}

func policyOrder(p Policy) int {
	if o, ok := p.(Ordered); ok {
		return o.Order()
	}

	return 0
}
