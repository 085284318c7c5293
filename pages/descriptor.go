// Package pages implements deferred compilation of page endpoints: pages
// are registered as lightweight descriptors and compiled into dispatchable
// endpoints on their first match, by a matching policy that swaps the
// compiled endpoint into the candidate set of the request.
package pages

import (
	"fmt"
	"net/http"

	"github.com/dimfeld/httppath"
	"github.com/zalando/pagemux/endpoint"
)

// Descriptor identifies a logical page of an application before it is
// compiled into a dispatchable endpoint. Descriptors are created at
// startup, shared between requests and never mutated.
type Descriptor struct {

	// Name is the rooted view path of the page, e.g. "/customers/profile".
	Name string

	// Area is the optional application area the page belongs to.
	Area string

	// Source is the application relative path of the page source.
	Source string
}

// NewDescriptor creates a descriptor with a normalized name: cleaned of
// empty and dot segments and rooted, the same way route paths are
// normalized before matching.
func NewDescriptor(area, name, source string) *Descriptor {
	return &Descriptor{
		Name:   cleanName(name),
		Area:   area,
		Source: source,
	}
}

func cleanName(name string) string {
	if name == "" {
		return "/"
	}

	name = httppath.Clean(name)
	if name[0] != '/' {
		name = "/" + name
	}

	return name
}

// Key returns the stable identity of the page, unique across areas. It is
// the cache key of the compiled page.
func (d *Descriptor) Key() string {
	if d.Area == "" {
		return d.Name
	}

	return d.Area + ":" + d.Name
}

func (d *Descriptor) String() string { return d.Key() }

// Page is the compiled form of a page descriptor: the descriptor it
// originates from plus a ready to dispatch endpoint. The metadata of the
// endpoint contains the page itself, which is what marks the endpoint
// compiled for the matching policy.
type Page struct {
	Descriptor *Descriptor
	Endpoint   *endpoint.Endpoint
}

// NewPage creates a compiled page for the descriptor with the given
// handler. The metadata of the created endpoint carries the descriptor, the
// extra items and the page itself.
func NewPage(d *Descriptor, h http.Handler, items ...any) *Page {
	p := &Page{Descriptor: d}
	items = append(append([]any{d}, items...), p)
	p.Endpoint = endpoint.New(d.Key(), h, items...)
	return p
}

// PlaceholderEndpoint creates the uncompiled endpoint of a page descriptor.
// Its metadata carries the descriptor so that the compilation policy
// replaces the endpoint when it first matches. The handler answers 500:
// dispatching to it means matching ran without the policy.
func PlaceholderEndpoint(d *Descriptor, items ...any) *endpoint.Endpoint {
	items = append([]any{d}, items...)
	return endpoint.New(d.Key(), notCompiledHandler(d), items...)
}

func notCompiledHandler(d *Descriptor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, fmt.Sprintf("page %s not compiled", d.Key()), http.StatusInternalServerError)
	})
}
