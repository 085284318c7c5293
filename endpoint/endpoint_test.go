package endpoint

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEndpoint(t *testing.T) {
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	e := New("/orders", h, &testTag{"order"})

	assert.Equal(t, "/orders", e.Name())
	assert.NotNil(t, e.Handler())
	assert.Equal(t, 1, e.Metadata().Len())
	assert.Equal(t, "/orders", e.String())
}

func TestNewEndpointWithoutHandler(t *testing.T) {
	e := New("/pending", nil)

	assert.Nil(t, e.Handler())
	assert.NotNil(t, e.Metadata())
	assert.Equal(t, 0, e.Metadata().Len())
}
