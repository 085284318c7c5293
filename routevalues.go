package pagemux

import "slices"

// RouteValue is a single named value extracted from the request while
// matching a route template.
type RouteValue struct {
	Key   string
	Value string
}

// RouteValues holds the named values extracted for one routing candidate.
// The order of the values is significant and preserved by every operation of
// this package.
type RouteValues []RouteValue

// Values creates a RouteValues list from alternating key/value arguments.
// It panics when the number of arguments is odd.
func Values(kv ...string) RouteValues {
	if len(kv)%2 != 0 {
		panic("odd number of route value arguments")
	}

	v := make(RouteValues, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		v = append(v, RouteValue{Key: kv[i], Value: kv[i+1]})
	}

	return v
}

// Get returns the first value stored under key.
func (v RouteValues) Get(key string) (string, bool) {
	for _, vi := range v {
		if vi.Key == key {
			return vi.Value, true
		}
	}

	return "", false
}

// Clone returns a copy that can be mutated independently of the original.
func (v RouteValues) Clone() RouteValues {
	return slices.Clone(v)
}
