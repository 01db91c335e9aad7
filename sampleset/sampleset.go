// Package sampleset is a small string set used for sample identifiers and
// term names.
package sampleset

import "sort"

type Set map[string]struct{}

func New(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}

	return s
}

func (s Set) Add(member string) {
	s[member] = struct{}{}
}

func (s Set) Has(member string) bool {
	_, exists := s[member]
	return exists
}

func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy, so callers may mutate the result without
// touching s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for m := range s {
		out[m] = struct{}{}
	}

	return out
}

// Subtract removes every member of other from s in place.
func (s Set) Subtract(other Set) {
	for m := range other {
		delete(s, m)
	}
}

func (s Set) Union(other Set) Set {
	out := s.Clone()
	for m := range other {
		out[m] = struct{}{}
	}

	return out
}

// Intersects reports whether any of the values is a member of s.
func (s Set) Intersects(values []string) bool {
	for _, v := range values {
		if s.Has(v) {
			return true
		}
	}

	return false
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for m := range s {
		if !other.Has(m) {
			return false
		}
	}

	return true
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)

	return out
}
