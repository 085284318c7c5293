// Package redirect writes HTTP redirect responses to registered pages,
// resolving the destination path from the page name and filling route value
// placeholders in the destination.
package redirect

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/zalando/pagemux"
	"github.com/zalando/pagemux/endpoint"
	"github.com/zalando/pagemux/pages"
)

// ErrNoDestination is returned by Execute when no destination is registered
// under the requested page name and area.
var ErrNoDestination = errors.New("no destination for redirect")

var placeholderRegexp = regexp.MustCompile(`\$\{(\w+)\}`)

// Result describes a redirect to a page.
type Result struct {

	// Page is the name of the destination page.
	Page string

	// Area is the application area of the destination page.
	Area string

	// Values fill the ${name} placeholders of the destination path.
	// Values without a matching placeholder are appended as query
	// parameters, keeping their order.
	Values pagemux.RouteValues

	// Fragment is appended to the destination URL.
	Fragment string

	// Permanent switches the status code from 302 to 301, or from 307 to
	// 308 when the method is preserved.
	Permanent bool

	// PreserveMethod redirects with 307 or 308, which keep the request
	// method and body.
	PreserveMethod bool
}

// Resolver yields the destination path of a page. An empty string means the
// page is unknown.
type Resolver interface {
	Resolve(page, area string) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(page, area string) string

func (f ResolverFunc) Resolve(page, area string) string { return f(page, area) }

// Endpoints creates a resolver that scans the metadata of the given
// endpoints for page descriptors. The path of the first descriptor matching
// the page name and area becomes the destination, prefixed with the area
// for area pages.
func Endpoints(eps ...*endpoint.Endpoint) Resolver {
	return endpointResolver(eps)
}

type endpointResolver []*endpoint.Endpoint

func (r endpointResolver) Resolve(page, area string) string {
	want := pages.NewDescriptor(area, page, "")
	for _, e := range r {
		if e == nil {
			continue
		}

		d, ok := endpoint.Of[*pages.Descriptor](e.Metadata())
		if !ok {
			continue
		}

		if d.Name != want.Name || d.Area != want.Area {
			continue
		}

		if d.Area == "" {
			return d.Name
		}

		return "/" + d.Area + d.Name
	}

	return ""
}

// Executor writes the redirect responses of results.
type Executor struct {
	resolver Resolver
}

// NewExecutor creates an executor resolving destinations with the given
// resolver. It panics when the resolver is nil.
func NewExecutor(r Resolver) *Executor {
	if r == nil {
		panic("redirect executor created without a resolver")
	}

	return &Executor{resolver: r}
}

// Execute resolves the destination of the result and writes the redirect:
// the Location header and the status code. An unknown destination leaves
// the response untouched and returns an error wrapping ErrNoDestination.
func (e *Executor) Execute(w http.ResponseWriter, result *Result) error {
	dest := e.resolver.Resolve(result.Page, result.Area)
	if dest == "" {
		return fmt.Errorf("%w: page %s", ErrNoDestination, pageRef(result))
	}

	w.Header().Set("Location", location(dest, result))
	w.WriteHeader(statusCode(result))
	return nil
}

func pageRef(r *Result) string {
	if r.Area == "" {
		return r.Page
	}

	return r.Area + ":" + r.Page
}

func location(dest string, result *Result) string {
	used := make(map[string]bool)
	path := placeholderRegexp.ReplaceAllStringFunc(dest, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := result.Values.Get(name); ok {
			used[name] = true
			return v
		}

		return ""
	})

	var query strings.Builder
	for _, v := range result.Values {
		if used[v.Key] {
			continue
		}

		if query.Len() > 0 {
			query.WriteByte('&')
		}

		query.WriteString(url.QueryEscape(v.Key))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(v.Value))
	}

	u := url.URL{
		Path:     path,
		RawQuery: query.String(),
		Fragment: result.Fragment,
	}

	return u.String()
}

func statusCode(r *Result) int {
	switch {
	case r.Permanent && r.PreserveMethod:
		return http.StatusPermanentRedirect
	case r.PreserveMethod:
		return http.StatusTemporaryRedirect
	case r.Permanent:
		return http.StatusMovedPermanently
	default:
		return http.StatusFound
	}
}
