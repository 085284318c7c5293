package redirect_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/pagemux"
	"github.com/zalando/pagemux/endpoint"
	"github.com/zalando/pagemux/pages"
	"github.com/zalando/pagemux/redirect"
)

func fixedResolver(dest string) redirect.Resolver {
	return redirect.ResolverFunc(func(page, area string) string { return dest })
}

func TestNewExecutorWithoutResolver(t *testing.T) {
	assert.Panics(t, func() { redirect.NewExecutor(nil) })
}

func TestExecuteStatusCodes(t *testing.T) {
	for _, tt := range []struct {
		msg            string
		permanent      bool
		preserveMethod bool
		status         int
	}{
		{"temporary", false, false, http.StatusFound},
		{"permanent", true, false, http.StatusMovedPermanently},
		{"temporary preserving the method", false, true, http.StatusTemporaryRedirect},
		{"permanent preserving the method", true, true, http.StatusPermanentRedirect},
	} {
		t.Run(tt.msg, func(t *testing.T) {
			e := redirect.NewExecutor(fixedResolver("/target"))
			w := httptest.NewRecorder()

			err := e.Execute(w, &redirect.Result{
				Page:           "/target",
				Permanent:      tt.permanent,
				PreserveMethod: tt.preserveMethod,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "/target", w.Header().Get("Location"))
		})
	}
}

func TestExecuteFillsPlaceholders(t *testing.T) {
	e := redirect.NewExecutor(fixedResolver("/customers/${id}/orders/${order}"))
	w := httptest.NewRecorder()

	err := e.Execute(w, &redirect.Result{
		Page:   "/customers/orders",
		Values: pagemux.Values("id", "42", "order", "7"),
	})

	require.NoError(t, err)
	assert.Equal(t, "/customers/42/orders/7", w.Header().Get("Location"))
}

func TestExecuteAppendsUnusedValuesAsQuery(t *testing.T) {
	e := redirect.NewExecutor(fixedResolver("/customers/${id}"))
	w := httptest.NewRecorder()

	err := e.Execute(w, &redirect.Result{
		Page: "/customers",
		Values: pagemux.Values(
			"id", "42",
			"tab", "orders",
			"q", "summer sale",
		),
	})

	require.NoError(t, err)
	assert.Equal(t, "/customers/42?tab=orders&q=summer+sale", w.Header().Get("Location"))
}

func TestExecuteMissingPlaceholderValue(t *testing.T) {
	e := redirect.NewExecutor(fixedResolver("/files/${name}"))
	w := httptest.NewRecorder()

	err := e.Execute(w, &redirect.Result{Page: "/files"})
	require.NoError(t, err)
	assert.Equal(t, "/files/", w.Header().Get("Location"))
}

func TestExecuteFragment(t *testing.T) {
	e := redirect.NewExecutor(fixedResolver("/docs/setup"))
	w := httptest.NewRecorder()

	err := e.Execute(w, &redirect.Result{Page: "/docs/setup", Fragment: "step-2"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/setup#step-2", w.Header().Get("Location"))
}

func TestExecuteUnknownPage(t *testing.T) {
	e := redirect.NewExecutor(fixedResolver(""))
	w := httptest.NewRecorder()

	err := e.Execute(w, &redirect.Result{Page: "/missing", Area: "Admin"})
	require.Error(t, err)
	assert.ErrorIs(t, err, redirect.ErrNoDestination)
	assert.EqualError(t, err, "no destination for redirect: page Admin:/missing")

	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, w.Code, "an unresolved redirect must not write the response")
}

func TestEndpointsResolver(t *testing.T) {
	profile := pages.PlaceholderEndpoint(pages.NewDescriptor("", "/customers/profile", ""))
	dashboard := pages.PlaceholderEndpoint(pages.NewDescriptor("Admin", "/dashboard", ""))
	plain := endpoint.New("static", http.NotFoundHandler())

	r := redirect.Endpoints(nil, plain, profile, dashboard)

	assert.Equal(t, "/customers/profile", r.Resolve("/customers/profile", ""))
	assert.Equal(t, "/customers/profile", r.Resolve("customers/profile", ""), "page names are normalized before matching")
	assert.Equal(t, "/Admin/dashboard", r.Resolve("/dashboard", "Admin"))
	assert.Empty(t, r.Resolve("/dashboard", ""), "area pages do not match without their area")
	assert.Empty(t, r.Resolve("/missing", ""))
}

func TestRedirectToRegisteredPage(t *testing.T) {
	checkout := pages.PlaceholderEndpoint(pages.NewDescriptor("", "/checkout", ""))
	e := redirect.NewExecutor(redirect.Endpoints(checkout))

	w := httptest.NewRecorder()
	err := e.Execute(w, &redirect.Result{
		Page:      "/checkout",
		Values:    pagemux.Values("step", "payment"),
		Permanent: false,
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/checkout?step=payment", w.Header().Get("Location"))
}
