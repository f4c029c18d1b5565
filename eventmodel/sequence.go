package eventmodel

import (
	"fmt"
	"sort"
	"time"
)

// TraceEvent is one observed occurrence within a trace DAG (§4.E's event
// input schema, restricted to the fields sequencing needs).
type TraceEvent struct {
	EventID        string
	EventType      string
	StartTimestamp time.Time
	EndTimestamp   time.Time
	ParentEventID  string
	ChildEventIDs  []string
}

// AsyncGroupMap maps an event type to its children's async-group labels:
// child event type -> group id. Children sharing a group id are concurrent
// siblings; children without an entry each form their own singleton group.
type AsyncGroupMap map[string]map[string]string

// Lookup implements GroupLookup over a flat parentType -> childType -> group
// id map, so literal AsyncGroupMap values (as used directly in tests) can be
// passed to SequenceJob without a runconfig.JobConfig in hand.
func (m AsyncGroupMap) Lookup(parentType, childType string) (string, bool) {
	children, ok := m[parentType]
	if !ok {
		return "", false
	}
	gid, ok := children[childType]
	return gid, ok
}

// GroupLookup reports the async-group id configured for parentType's child
// childType, and whether one was configured at all (§4.A/§6
// async_event_groups). Callers typically pass a runconfig.JobConfig's
// GroupOf method directly, or an AsyncGroupMap's Lookup method for a flat
// map. A nil GroupLookup treats every child as ungrouped.
type GroupLookup func(parentType, childType string) (string, bool)

// NameMapEntry rewrites an event's EventType during sequencing when at least
// one of its children's types appears in ChildEventTypes (§6
// event_name_map_information): telemetry sources often emit one generic
// event type for several distinct operations, disambiguated only by what
// follows.
type NameMapEntry struct {
	MappedEventType string
	ChildEventTypes []string
}

// NameMap maps an event type to its rewriting rule.
type NameMap map[string]NameMapEntry

// ApplyNameMap returns a copy of trace with every event's EventType rewritten
// per nameMap: an event whose type has an entry is renamed to the entry's
// MappedEventType when at least one of its children's types is listed in
// ChildEventTypes, or unconditionally when ChildEventTypes is empty. Event
// ids and the DAG shape are untouched, so the result can stand in for trace
// in both SequenceJob and BuildGraphFromTraces. When nameMap is empty, trace
// itself is returned, not a copy.
func ApplyNameMap(trace map[string]*TraceEvent, nameMap NameMap) map[string]*TraceEvent {
	if len(nameMap) == 0 {
		return trace
	}
	out := make(map[string]*TraceEvent, len(trace))
	for id, ev := range trace {
		rewritten := *ev
		if entry, ok := nameMap[ev.EventType]; ok && matchesAnyChild(ev, trace, entry.ChildEventTypes) {
			rewritten.EventType = entry.MappedEventType
		}
		out[id] = &rewritten
	}
	return out
}

func matchesAnyChild(ev *TraceEvent, trace map[string]*TraceEvent, childTypes []string) bool {
	if len(childTypes) == 0 {
		return true
	}
	want := make(map[string]struct{}, len(childTypes))
	for _, t := range childTypes {
		want[t] = struct{}{}
	}
	for _, childID := range ev.ChildEventIDs {
		child, ok := trace[childID]
		if !ok {
			continue
		}
		if _, match := want[child.EventType]; match {
			return true
		}
	}
	return false
}

// SequenceJob computes, for every event in trace, the ordered list of
// immediate predecessor event ids, per §4.A's ancestor sequencing algorithm.
// trace must contain exactly one event with no ParentEventID (the root);
// any other shape is an ErrInputShape.
func SequenceJob(trace map[string]*TraceEvent, asyncFlag bool, groupOf GroupLookup) (map[string][]string, error) {
	root, err := findRoot(trace)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string)
	if err := sequenceAncestors(root, trace, nil, asyncFlag, groupOf, result); err != nil {
		return nil, err
	}
	return result, nil
}

func findRoot(trace map[string]*TraceEvent) (*TraceEvent, error) {
	var roots []*TraceEvent
	for _, ev := range trace {
		if ev.ParentEventID == "" {
			roots = append(roots, ev)
		}
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: trace must have exactly one root event, found %d", ErrInputShape, len(roots))
	}
	return roots[0], nil
}

func sequenceAncestors(
	event *TraceEvent,
	trace map[string]*TraceEvent,
	previousEventIDs []string,
	asyncFlag bool,
	groupOf GroupLookup,
	result map[string][]string,
) error {
	children := make([]*TraceEvent, 0, len(event.ChildEventIDs))
	for _, childID := range event.ChildEventIDs {
		child, ok := trace[childID]
		if !ok {
			return fmt.Errorf("%w: event %q references missing child %q", ErrInputShape, event.EventID, childID)
		}
		children = append(children, child)
	}

	groups := groupChildrenByAsync(children, event.EventType, groupOf)
	if asyncFlag {
		groups = sequenceGroupsAsync(groups)
	} else {
		groups = orderGroupsByStart(groups)
	}

	prev := []string{event.EventID}
	for _, group := range groups {
		for _, groupEvent := range group {
			if err := sequenceAncestors(groupEvent, trace, prev, asyncFlag, groupOf, result); err != nil {
				return err
			}
		}
		next := make([]string, 0, len(group))
		for _, groupEvent := range group {
			next = append(next, groupEvent.EventID)
		}
		prev = next
	}

	result[event.EventID] = previousEventIDs
	return nil
}

// groupChildrenByAsync partitions children into concurrent-sibling groups:
// one group per distinct async-group id, plus one singleton group per
// ungrouped child.
func groupChildrenByAsync(children []*TraceEvent, parentType string, groupOf GroupLookup) [][]*TraceEvent {
	if len(children) == 0 {
		return nil
	}
	groupOrder := make([]string, 0)
	byGroup := make(map[string][]*TraceEvent)
	var singletons [][]*TraceEvent

	for _, child := range children {
		var groupID string
		var grouped bool
		if groupOf != nil {
			groupID, grouped = groupOf(parentType, child.EventType)
		}
		if !grouped {
			singletons = append(singletons, []*TraceEvent{child})
			continue
		}
		if _, ok := byGroup[groupID]; !ok {
			groupOrder = append(groupOrder, groupID)
		}
		byGroup[groupID] = append(byGroup[groupID], child)
	}

	groups := make([][]*TraceEvent, 0, len(groupOrder)+len(singletons))
	for _, id := range groupOrder {
		groups = append(groups, byGroup[id])
	}
	groups = append(groups, singletons...)
	return groups
}

// orderGroupsByStart orders groups (and the events within each group) by
// earliest start timestamp — the synchronous-mode ordering.
func orderGroupsByStart(groups [][]*TraceEvent) [][]*TraceEvent {
	ordered := make([][]*TraceEvent, len(groups))
	for i, group := range groups {
		sorted := append([]*TraceEvent(nil), group...)
		sort.Slice(sorted, func(a, b int) bool {
			return sorted[a].StartTimestamp.Before(sorted[b].StartTimestamp)
		})
		ordered[i] = sorted
	}
	sort.Slice(ordered, func(a, b int) bool {
		return ordered[a][0].StartTimestamp.Before(ordered[b][0].StartTimestamp)
	})
	return ordered
}

// sequenceGroupsAsync coalesces groups whose time windows overlap into a
// single group, using end-vs-start overlap — the asynchronous-mode
// ordering.
func sequenceGroupsAsync(groups [][]*TraceEvent) [][]*TraceEvent {
	ordered := orderGroupsByStart(groups)
	if len(ordered) == 0 {
		return nil
	}
	coalesced := [][]*TraceEvent{ordered[0]}
	lastEnd := groupEnd(ordered[0])
	for _, group := range ordered[1:] {
		groupStart := group[0].StartTimestamp
		if lastEnd.Before(groupStart) {
			coalesced = append(coalesced, group)
		} else {
			coalesced[len(coalesced)-1] = append(coalesced[len(coalesced)-1], group...)
		}
		if groupEnd(group).After(lastEnd) {
			lastEnd = groupEnd(group)
		}
	}
	return coalesced
}

func groupEnd(group []*TraceEvent) time.Time {
	end := group[0].EndTimestamp
	for _, ev := range group[1:] {
		if ev.EndTimestamp.After(end) {
			end = ev.EndTimestamp
		}
	}
	return end
}
