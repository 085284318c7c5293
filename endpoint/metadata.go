package endpoint

import "slices"

// Metadata is an ordered, read-only collection of arbitrary items attached
// to an endpoint. Items are queried by type with Of. When multiple items
// match the requested type, the one added last wins, so constructing an
// endpoint from the items of an existing one plus new items shadows the
// older ones.
type Metadata struct {
	items []any
}

// NewMetadata creates a metadata collection from the given items, dropping
// nil ones.
func NewMetadata(items ...any) *Metadata {
	m := &Metadata{items: make([]any, 0, len(items))}
	for _, item := range items {
		if item != nil {
			m.items = append(m.items, item)
		}
	}

	return m
}

// Len returns the number of items in the collection.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}

	return len(m.items)
}

// Items returns a copy of the items in insertion order.
func (m *Metadata) Items() []any {
	if m == nil {
		return nil
	}

	return slices.Clone(m.items)
}

// Of returns the last item of the collection assignable to T, including
// items whose dynamic type implements an interface type argument. It reports
// false when the collection has no such item. Safe to call on a nil
// collection.
func Of[T any](m *Metadata) (T, bool) {
	if m != nil {
		for i := len(m.items) - 1; i >= 0; i-- {
			if v, ok := m.items[i].(T); ok {
				return v, true
			}
		}
	}

	var zero T
	return zero, false
}
