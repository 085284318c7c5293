package pagemux

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/pagemux/endpoint"
)

type testPolicy struct {
	name    string
	applies bool
	apply   func(*http.Request, *CandidateSet) error
}

func (p *testPolicy) Name() string                            { return p.name }
func (p *testPolicy) AppliesTo([]*endpoint.Endpoint) bool     { return p.applies }
func (p *testPolicy) Apply(r *http.Request, cs *CandidateSet) error {
	if p.apply != nil {
		return p.apply(r, cs)
	}

	return nil
}

type orderedTestPolicy struct {
	testPolicy
	order int
}

func (p *orderedTestPolicy) Order() int { return p.order }

func TestPipelineOrder(t *testing.T) {
	var ran []string
	record := func(name string) func(*http.Request, *CandidateSet) error {
		return func(*http.Request, *CandidateSet) error {
			ran = append(ran, name)
			return nil
		}
	}

	p := NewPipeline(nil,
		&testPolicy{name: "unordered-a", applies: true, apply: record("unordered-a")},
		&orderedTestPolicy{testPolicy{"late", true, record("late")}, 100},
		&orderedTestPolicy{testPolicy{"early", true, record("early")}, -100},
		&testPolicy{name: "unordered-b", applies: true, apply: record("unordered-b")},
	)

	want := []string{"early", "unordered-a", "unordered-b", "late"}
	assert.Equal(t, want, p.PolicyNames())

	err := p.Apply(httptest.NewRequest("GET", "/", nil), NewCandidateSet())
	require.NoError(t, err)
	assert.Equal(t, want, ran)
}

func TestPipelineSkipsNotApplying(t *testing.T) {
	p := NewPipeline(nil,
		&testPolicy{name: "on", applies: true},
		&testPolicy{name: "off", applies: false},
	)

	assert.Equal(t, []string{"on"}, p.PolicyNames())
}

func TestPipelineStopsOnError(t *testing.T) {
	applyErr := errors.New("apply failed")
	var reached bool

	p := NewPipeline(nil,
		&testPolicy{name: "failing", applies: true, apply: func(*http.Request, *CandidateSet) error {
			return applyErr
		}},
		&testPolicy{name: "later", applies: true, apply: func(*http.Request, *CandidateSet) error {
			reached = true
			return nil
		}},
	)

	err := p.Apply(httptest.NewRequest("GET", "/", nil), NewCandidateSet())
	assert.Same(t, applyErr, err, "the policy error is returned unmodified")
	assert.False(t, reached)
}

func TestMatchSelectsFirstValid(t *testing.T) {
	first := endpoint.New("first", nil)
	second := endpoint.New("second", nil)

	invalidateFirst := &testPolicy{name: "invalidate", applies: true, apply: func(_ *http.Request, cs *CandidateSet) error {
		cs.SetValidity(0, false)
		return nil
	}}

	p := NewPipeline(nil, invalidateFirst)
	cs := NewCandidateSet(
		Candidate{Endpoint: first, Values: Values("id", "1")},
		Candidate{Endpoint: second, Values: Values("id", "2")},
	)

	e, values, err := p.Match(httptest.NewRequest("GET", "/", nil), cs)
	require.NoError(t, err)
	assert.Same(t, second, e)

	id, _ := values.Get("id")
	assert.Equal(t, "2", id)
}

func TestMatchWithoutValidCandidates(t *testing.T) {
	p := NewPipeline(nil)
	cs := NewCandidateSet(Candidate{})

	e, values, err := p.Match(httptest.NewRequest("GET", "/", nil), cs)
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Nil(t, values)
}

func TestMatchPropagatesError(t *testing.T) {
	applyErr := errors.New("apply failed")
	p := NewPipeline(nil, &testPolicy{name: "failing", applies: true, apply: func(*http.Request, *CandidateSet) error {
		return applyErr
	}})

	e, _, err := p.Match(httptest.NewRequest("GET", "/", nil), NewCandidateSet(Candidate{Endpoint: endpoint.New("a", nil)}))
	assert.Nil(t, e)
	assert.Same(t, applyErr, err)
}
