package pagemux

import (
	"net/http"
	"sort"

	"github.com/zalando/pagemux/endpoint"
)

// Pipeline runs an ordered list of matching policies over per-request
// candidate sets.
type Pipeline struct {
	policies []Policy
}

// NewPipeline creates a pipeline for the given registered endpoints,
// keeping only the policies that report to apply to them. The kept policies
// are sorted ascending; policies of equal order keep their registration
// order.
func NewPipeline(endpoints []*endpoint.Endpoint, policies ...Policy) *Pipeline {
	p := &Pipeline{}
	for _, pi := range policies {
		if pi.AppliesTo(endpoints) {
			p.policies = append(p.policies, pi)
		}
	}

	sort.SliceStable(p.policies, func(i, j int) bool {
		return policyOrder(p.policies[i]) < policyOrder(p.policies[j])
	})

	return p
}

// PolicyNames returns the names of the policies the pipeline runs, in run
// order. It is meant for diagnostics.
func (p *Pipeline) PolicyNames() []string {
	names := make([]string, len(p.policies))
	for i, pi := range p.policies {
		names[i] = pi.Name()
	}

	return names
}

// Apply runs the policies of the pipeline over the candidate set in order,
// stopping at the first policy error and returning it unmodified.
func (p *Pipeline) Apply(req *http.Request, candidates *CandidateSet) error {
	for _, pi := range p.policies {
		if err := pi.Apply(req, candidates); err != nil {
			return err
		}
	}

	return nil
}

// Match applies the policies and selects the final match, the valid slot
// with the lowest index. It returns a nil endpoint and a nil error when no
// candidate remains valid.
func (p *Pipeline) Match(req *http.Request, candidates *CandidateSet) (*endpoint.Endpoint, RouteValues, error) {
	if err := p.Apply(req, candidates); err != nil {
		return nil, nil, err
	}

	for i := 0; i < candidates.Len(); i++ {
		if candidates.Valid(i) {
			return candidates.Endpoint(i), candidates.Values(i), nil
		}
	}

	return nil, nil, nil
}
