package util

import (
	"fmt"
	"sort"
	"strings"
)

// KeySet is an unordered set of comparable elements, backed by the keys of
// a map. It is the set type the engine's own set algebra runs on: the
// lexer's positive/negative tag closures and the semantic analyzer's
// FIRST-set pruning both accumulate and difference KeySets rather than
// hand-threading map[E]bool bookkeeping at every site.
//
// The zero value is not usable; construct with NewKeySet or KeySetOf.
type KeySet[E comparable] map[E]bool

// NewKeySet creates a new KeySet. If any map arguments are given, all keys
// that map to true are added to the resulting set.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k, ok := range m {
			if ok {
				s[k] = true
			}
		}
	}
	return s
}

// KeySetOf creates a KeySet containing every element of sl.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	s := KeySet[E]{}
	for _, e := range sl {
		s[e] = true
	}
	return s
}

// Add adds the given element to the set. If the element is already in the
// set, no effect occurs.
func (s KeySet[E]) Add(element E) {
	s[element] = true
}

// AddAll adds every element of s2 to the set.
func (s KeySet[E]) AddAll(s2 KeySet[E]) {
	for e := range s2 {
		s[e] = true
	}
}

// Remove removes the given element from the set. If the element is already
// not in the set, no effect occurs.
func (s KeySet[E]) Remove(element E) {
	delete(s, element)
}

// Has returns whether the set has the specified element.
func (s KeySet[E]) Has(element E) bool {
	return s[element]
}

// Len returns the number of elements in the set.
func (s KeySet[E]) Len() int {
	return len(s)
}

// Empty returns whether the set is empty.
func (s KeySet[E]) Empty() bool {
	return len(s) == 0
}

// Copy returns a new KeySet with the same elements as s.
func (s KeySet[E]) Copy() KeySet[E] {
	n := make(KeySet[E], len(s))
	for e := range s {
		n[e] = true
	}
	return n
}

// Union returns a new KeySet containing every element in s or in o.
func (s KeySet[E]) Union(o KeySet[E]) KeySet[E] {
	n := s.Copy()
	n.AddAll(o)
	return n
}

// Intersection returns a new KeySet containing the elements in both s and
// o.
func (s KeySet[E]) Intersection(o KeySet[E]) KeySet[E] {
	n := KeySet[E]{}
	for e := range s {
		if o.Has(e) {
			n[e] = true
		}
	}
	return n
}

// Difference returns a new KeySet containing the elements of s that are
// not in o.
func (s KeySet[E]) Difference(o KeySet[E]) KeySet[E] {
	n := KeySet[E]{}
	for e := range s {
		if !o.Has(e) {
			n[e] = true
		}
	}
	return n
}

// DisjointWith returns whether s shares no elements with o.
func (s KeySet[E]) DisjointWith(o KeySet[E]) bool {
	for e := range s {
		if o.Has(e) {
			return false
		}
	}
	return true
}

// Equal returns whether s contains exactly the elements of o.
func (s KeySet[E]) Equal(o KeySet[E]) bool {
	if len(s) != len(o) {
		return false
	}
	for e := range s {
		if !o.Has(e) {
			return false
		}
	}
	return true
}

// Elements returns the elements of the set, in no particular order.
func (s KeySet[E]) Elements() []E {
	out := make([]E, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}

// String is a string with the contents of the set, ordered by each
// element's own string rendering so output is stable for diagnostics.
func (s KeySet[E]) String() string {
	parts := make([]string, 0, len(s))
	for e := range s {
		parts = append(parts, fmt.Sprintf("%v", e))
	}
	sort.Strings(parts)

	var sb strings.Builder
	sb.WriteRune('{')
	for i, p := range parts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p)
	}
	sb.WriteRune('}')
	return sb.String()
}
