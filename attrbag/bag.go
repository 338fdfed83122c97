// Package attrbag defines the (key, value) attribute bag shared by the
// graph tile's edge attribute store and the attribute-set classification
// index. A Bag canonicalizes order-insensitively and removes
// duplicate keys, keeping the last value seen for a repeated key: a
// "last write wins" rule for repeated metadata writes.
package attrbag

import "sort"

// Pair is one (key, value) entry of a Bag.
type Pair struct {
	Key   string
	Value string
}

// Bag is an unordered set of (key, value) pairs describing an edge or a
// classification result.
type Bag []Pair

// Canonical returns a new Bag sorted by key and de-duplicated (last value
// for a repeated key wins), suitable for use as a map key via String.
func (b Bag) Canonical() Bag {
	byKey := make(map[string]string, len(b))
	for _, p := range b {
		byKey[p.Key] = p.Value
	}
	out := make(Bag, 0, len(byKey))
	for k, v := range byKey {
		out = append(out, Pair{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Get returns the value for key and whether it was present.
func (b Bag) Get(key string) (string, bool) {
	for _, p := range b {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Equal reports whether two canonical bags hold the same pairs. Callers
// should canonicalize both sides first; Equal does not canonicalize.
func (b Bag) Equal(other Bag) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}

	return true
}

// Key returns a string form of a canonical Bag suitable as a map key.
func (b Bag) Key() string {
	// A length-prefixed join avoids ambiguity between e.g. {"a":"b,c"} and
	// {"a":"b", "": "c"}.
	var out []byte
	for _, p := range b {
		out = append(out, byte(len(p.Key)))
		out = append(out, p.Key...)
		out = append(out, byte(len(p.Value)))
		out = append(out, p.Value...)
	}

	return string(out)
}
