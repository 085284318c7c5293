package pagemux

import (
	"fmt"

	"github.com/zalando/pagemux/endpoint"
)

// Candidate pairs an endpoint with the route values extracted when its route
// template matched the request.
type Candidate struct {
	Endpoint *endpoint.Endpoint
	Values   RouteValues
}

type slot struct {
	endpoint *endpoint.Endpoint
	values   RouteValues
	valid    bool
}

// CandidateSet is the positionally indexed, mutable set of candidates that
// the policies of a pipeline narrow down to the final match. Slot indices
// stay stable for the lifetime of the set, and a lower index means a higher
// match priority. A set belongs to a single in-flight request and is not
// safe for concurrent use.
type CandidateSet struct {
	slots []slot
}

// NewCandidateSet creates a candidate set from the matched candidates. All
// slots start out valid, except those without an endpoint.
func NewCandidateSet(candidates ...Candidate) *CandidateSet {
	cs := &CandidateSet{slots: make([]slot, len(candidates))}
	for i, c := range candidates {
		cs.slots[i] = slot{
			endpoint: c.Endpoint,
			values:   c.Values,
			valid:    c.Endpoint != nil,
		}
	}

	return cs
}

// Len returns the number of slots in the set, including invalidated ones.
func (cs *CandidateSet) Len() int {
	return len(cs.slots)
}

// Valid reports whether the slot at index i is still a possible match.
func (cs *CandidateSet) Valid(i int) bool {
	cs.check(i)
	return cs.slots[i].valid
}

// SetValidity marks the slot at index i as a possible match or rules it out.
func (cs *CandidateSet) SetValidity(i int, valid bool) {
	cs.check(i)
	cs.slots[i].valid = valid
}

// Endpoint returns the endpoint of the slot at index i.
func (cs *CandidateSet) Endpoint(i int) *endpoint.Endpoint {
	cs.check(i)
	return cs.slots[i].endpoint
}

// Values returns the route values of the slot at index i. The returned slice
// is shared with the set.
func (cs *CandidateSet) Values(i int) RouteValues {
	cs.check(i)
	return cs.slots[i].values
}

// ReplaceEndpoint swaps the endpoint of the slot at index i in place,
// leaving the route values of the slot untouched. Replacing with nil
// invalidates the slot.
func (cs *CandidateSet) ReplaceEndpoint(i int, e *endpoint.Endpoint) {
	cs.check(i)
	cs.slots[i].endpoint = e
	if e == nil {
		cs.slots[i].valid = false
	}
}

func (cs *CandidateSet) check(i int) {
	if i < 0 || i >= len(cs.slots) {
		panic(fmt.Sprintf("candidate index %d out of range [0, %d)", i, len(cs.slots)))
	}
}
