// Package endpoint defines the dispatch targets selected by the matching
// pipeline, together with the typed metadata collection used to attach
// auxiliary information to them.
package endpoint

import "net/http"

// Endpoint is a dispatchable target of request routing. Endpoints are
// immutable once constructed: policies that need a different endpoint for a
// routing candidate replace the endpoint instead of mutating it.
type Endpoint struct {
	name     string
	handler  http.Handler
	metadata *Metadata
}

// New creates an endpoint with a display name, the handler invoked when the
// endpoint is dispatched, and an arbitrary list of metadata items. The
// handler may be nil for endpoints that are not dispatchable yet.
func New(name string, handler http.Handler, items ...any) *Endpoint {
	return &Endpoint{
		name:     name,
		handler:  handler,
		metadata: NewMetadata(items...),
	}
}

// Name returns the display name of the endpoint used for logging and
// diagnostics.
func (e *Endpoint) Name() string { return e.name }

// Handler returns the handler serving requests dispatched to this endpoint,
// or nil when the endpoint is not dispatchable.
func (e *Endpoint) Handler() http.Handler { return e.handler }

// Metadata returns the metadata collection of the endpoint, never nil.
func (e *Endpoint) Metadata() *Metadata { return e.metadata }

func (e *Endpoint) String() string { return e.name }
