package eventmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mkTrace(events ...*TraceEvent) map[string]*TraceEvent {
	m := make(map[string]*TraceEvent, len(events))
	for _, e := range events {
		m[e.EventID] = e
	}
	return m
}

func at(sec int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, sec, 0, time.UTC)
}

func TestSequenceJob_LinearChain(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A", StartTimestamp: at(0), EndTimestamp: at(1), ChildEventIDs: []string{"b"}}
	b := &TraceEvent{EventID: "b", EventType: "B", ParentEventID: "a", StartTimestamp: at(1), EndTimestamp: at(2)}

	result, err := SequenceJob(mkTrace(a, b), false, nil)
	require.NoError(t, err)
	require.Empty(t, result["a"])
	require.Equal(t, []string{"a"}, result["b"])
}

func TestSequenceJob_SyncSiblingsOrderedByStart(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A", StartTimestamp: at(0), EndTimestamp: at(5), ChildEventIDs: []string{"d", "c"}}
	c := &TraceEvent{EventID: "c", EventType: "C", ParentEventID: "a", StartTimestamp: at(1), EndTimestamp: at(2)}
	d := &TraceEvent{EventID: "d", EventType: "D", ParentEventID: "a", StartTimestamp: at(3), EndTimestamp: at(4)}

	result, err := SequenceJob(mkTrace(a, c, d), false, nil)
	require.NoError(t, err)
	// C starts before D, so D's previous event should be C (sequential, not concurrent).
	require.Equal(t, []string{"c"}, result["d"])
	require.Equal(t, []string{"a"}, result["c"])
}

func TestSequenceJob_AsyncGroupProducesConcurrentFanout(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A", StartTimestamp: at(0), EndTimestamp: at(5), ChildEventIDs: []string{"b1", "b2"}}
	b1 := &TraceEvent{EventID: "b1", EventType: "B", ParentEventID: "a", StartTimestamp: at(1), EndTimestamp: at(2)}
	b2 := &TraceEvent{EventID: "b2", EventType: "B", ParentEventID: "a", StartTimestamp: at(1), EndTimestamp: at(2)}

	groups := AsyncGroupMap{"A": {"B": "concurrent-b"}}
	result, err := SequenceJob(mkTrace(a, b1, b2), false, groups.Lookup)
	require.NoError(t, err)
	// Both siblings share a group, so both become direct children of A.
	require.Equal(t, []string{"a"}, result["b1"])
	require.Equal(t, []string{"a"}, result["b2"])
}

func TestSequenceJob_RejectsMissingChild(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A", ChildEventIDs: []string{"ghost"}}
	_, err := SequenceJob(mkTrace(a), false, nil)
	require.ErrorIs(t, err, ErrInputShape)
}

func TestSequenceJob_RejectsMultipleRoots(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A"}
	b := &TraceEvent{EventID: "b", EventType: "B"}
	_, err := SequenceJob(mkTrace(a, b), false, nil)
	require.ErrorIs(t, err, ErrInputShape)
}

func TestSequenceGroupsAsync_CoalescesOverlappingGroups(t *testing.T) {
	g1 := []*TraceEvent{{EventID: "x", StartTimestamp: at(0), EndTimestamp: at(10)}}
	g2 := []*TraceEvent{{EventID: "y", StartTimestamp: at(5), EndTimestamp: at(6)}}
	g3 := []*TraceEvent{{EventID: "z", StartTimestamp: at(20), EndTimestamp: at(21)}}

	coalesced := sequenceGroupsAsync([][]*TraceEvent{g3, g2, g1})
	require.Len(t, coalesced, 2)
	require.Len(t, coalesced[0], 2) // x and y overlap
	require.Len(t, coalesced[1], 1) // z is disjoint
}

func TestApplyNameMap_RewritesOnMatchingChild(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "DB_CALL", ChildEventIDs: []string{"b"}}
	b := &TraceEvent{EventID: "b", EventType: "QUERY", ParentEventID: "a"}
	trace := mkTrace(a, b)

	nameMap := NameMap{"DB_CALL": {MappedEventType: "DB_QUERY", ChildEventTypes: []string{"QUERY"}}}
	rewritten := ApplyNameMap(trace, nameMap)

	require.Equal(t, "DB_QUERY", rewritten["a"].EventType)
	require.Equal(t, "QUERY", rewritten["b"].EventType)
	require.Equal(t, "DB_CALL", trace["a"].EventType, "original trace must be untouched")
}

func TestApplyNameMap_LeavesNonMatchingChildUnrewritten(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "DB_CALL", ChildEventIDs: []string{"b"}}
	b := &TraceEvent{EventID: "b", EventType: "COMMIT", ParentEventID: "a"}
	trace := mkTrace(a, b)

	nameMap := NameMap{"DB_CALL": {MappedEventType: "DB_QUERY", ChildEventTypes: []string{"QUERY"}}}
	rewritten := ApplyNameMap(trace, nameMap)

	require.Equal(t, "DB_CALL", rewritten["a"].EventType)
}

func TestApplyNameMap_EmptyChildEventTypesRewritesUnconditionally(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "GENERIC"}
	trace := mkTrace(a)

	nameMap := NameMap{"GENERIC": {MappedEventType: "SPECIFIC"}}
	rewritten := ApplyNameMap(trace, nameMap)

	require.Equal(t, "SPECIFIC", rewritten["a"].EventType)
}

func TestApplyNameMap_NilMapReturnsSameTrace(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A"}
	trace := mkTrace(a)

	rewritten := ApplyNameMap(trace, nil)
	require.Same(t, trace["a"], rewritten["a"])
}
