package endpoint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testTag struct {
	name string
}

func (tt *testTag) String() string { return tt.name }

type testWeight int

func TestMetadataOfLastWins(t *testing.T) {
	m := NewMetadata(&testTag{"first"}, testWeight(3), &testTag{"second"})

	tag, ok := Of[*testTag](m)
	assert.True(t, ok)
	assert.Equal(t, "second", tag.name)

	w, ok := Of[testWeight](m)
	assert.True(t, ok)
	assert.Equal(t, testWeight(3), w)
}

func TestMetadataOfInterface(t *testing.T) {
	m := NewMetadata(testWeight(1), &testTag{"stringer"})

	s, ok := Of[fmt.Stringer](m)
	assert.True(t, ok)
	assert.Equal(t, "stringer", s.String())
}

func TestMetadataOfMissing(t *testing.T) {
	m := NewMetadata(&testTag{"only"})

	_, ok := Of[testWeight](m)
	assert.False(t, ok)

	_, ok = Of[*testTag](NewMetadata())
	assert.False(t, ok)
}

func TestMetadataNil(t *testing.T) {
	var m *Metadata

	_, ok := Of[*testTag](m)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Items())
}

func TestMetadataDropsNilItems(t *testing.T) {
	m := NewMetadata(nil, &testTag{"kept"}, nil)
	assert.Equal(t, 1, m.Len())
}

func TestMetadataItemsIsACopy(t *testing.T) {
	m := NewMetadata(&testTag{"stable"})

	items := m.Items()
	items[0] = nil

	tag, ok := Of[*testTag](m)
	assert.True(t, ok)
	assert.Equal(t, "stable", tag.name)
}
