// Package eventmodel holds the Event/EventSet/EventGraph data model and the
// accumulator that turns observed trace DAGs into per-event forward and
// backward multiset evidence.
package eventmodel

import (
	"sort"
	"strconv"
	"strings"
)

// EventSet is a multiset of event-type identifiers: event_type -> count.
// Two EventSets with the same keys and counts are the same set, regardless
// of the order types were added in.
type EventSet map[string]int

// NewEventSet builds an EventSet from a (possibly repeating) slice of types.
func NewEventSet(types []string) EventSet {
	es := make(EventSet, len(types))
	for _, t := range types {
		es[t]++
	}
	return es
}

// Key returns a stable string uniquely identifying this EventSet's contents,
// suitable as a map key or for membership in a set of EventSets. It is built
// from the sorted list of (type, count) pairs.
func (es EventSet) Key() string {
	if len(es) == 0 {
		return ""
	}
	types := make([]string, 0, len(es))
	for t := range es {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(t)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(es[t]))
	}
	return b.String()
}

// IsSubsetOf reports whether every type in es appears in other with at least
// as many occurrences.
func (es EventSet) IsSubsetOf(other EventSet) bool {
	for t, n := range es {
		if other[t] < n {
			return false
		}
	}
	return true
}

// ProjectOnto returns a new EventSet containing only the types present in
// universe, keeping their original counts.
func (es EventSet) ProjectOnto(universe map[string]struct{}) EventSet {
	out := make(EventSet)
	for t, n := range es {
		if _, ok := universe[t]; ok {
			out[t] = n
		}
	}
	return out
}

// IntersectKeys returns the set of types in es that also appear in universe,
// ignoring counts.
func (es EventSet) IntersectKeys(universe map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for t := range es {
		if _, ok := universe[t]; ok {
			out[t] = struct{}{}
		}
	}
	return out
}

// Flatten returns the sorted list of types in es, expanded by count (e.g.
// {A:2, B:1} -> ["A", "A", "B"]).
func (es EventSet) Flatten() []string {
	types := make([]string, 0, len(es))
	for t := range es {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]string, 0, len(types))
	for _, t := range types {
		for i := 0; i < es[t]; i++ {
			out = append(out, t)
		}
	}
	return out
}

// ReducedKeySet returns the set of distinct types in es, ignoring counts.
// This is the "reduced event set" used throughout logic gate inference.
func (es EventSet) ReducedKeySet() map[string]struct{} {
	out := make(map[string]struct{}, len(es))
	for t := range es {
		out[t] = struct{}{}
	}
	return out
}

// Clone returns a deep copy of es.
func (es EventSet) Clone() EventSet {
	out := make(EventSet, len(es))
	for t, n := range es {
		out[t] = n
	}
	return out
}

// Contains reports whether t is a member of es.
func (es EventSet) Contains(t string) bool {
	_, ok := es[t]
	return ok
}

// Equal reports whether es and other contain exactly the same types with
// the same counts.
func (es EventSet) Equal(other EventSet) bool {
	if len(es) != len(other) {
		return false
	}
	for t, n := range es {
		if other[t] != n {
			return false
		}
	}
	return true
}
