// Package pagestest provides a scriptable compiler for testing components
// built around page loading.
package pagestest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/zalando/pagemux/endpoint"
	"github.com/zalando/pagemux/pages"
)

// Compiler is a pages.Compiler for tests. It builds pages whose endpoints
// serve 200 with the page key as the body, and records the number of
// compilations per page.
type Compiler struct {

	// Errors maps page keys to errors: compiling a listed page fails with
	// the mapped error.
	Errors map[string]error

	// Handlers maps page keys to the handlers the compiled endpoints get.
	// Pages without an entry serve 200 with the page key.
	Handlers map[string]http.Handler

	// Delay makes every compilation take the given duration.
	Delay time.Duration

	mu       sync.Mutex
	compiles map[string]int
}

var _ pages.Compiler = &Compiler{}

func (c *Compiler) Compile(ctx context.Context, d *pages.Descriptor, md *endpoint.Metadata) (*pages.Page, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	key := d.Key()

	c.mu.Lock()
	if c.compiles == nil {
		c.compiles = make(map[string]int)
	}
	c.compiles[key]++
	c.mu.Unlock()

	if err := c.Errors[key]; err != nil {
		return nil, err
	}

	h := c.Handlers[key]
	if h == nil {
		h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(key))
		})
	}

	return pages.NewPage(d, h), nil
}

// Compiles returns how many times the page was compiled, failed attempts
// included.
func (c *Compiler) Compiles(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiles[key]
}
