package eventmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func traceOf(events ...*TraceEvent) SequencedTrace {
	trace := mkTrace(events...)
	prev, err := SequenceJob(trace, false, nil)
	if err != nil {
		panic(err)
	}
	return SequencedTrace{Events: trace, PreviousEventIDs: prev}
}

func TestBuildGraphFromTraces_LinearChain(t *testing.T) {
	a := &TraceEvent{EventID: "a", EventType: "A", StartTimestamp: at(0), EndTimestamp: at(1), ChildEventIDs: []string{"b"}}
	b := &TraceEvent{EventID: "b", EventType: "B", ParentEventID: "a", StartTimestamp: at(1), EndTimestamp: at(2)}

	g, err := BuildGraphFromTraces([]SequencedTrace{traceOf(a, b)})
	require.NoError(t, err)

	evA, ok := g.Event("A")
	require.True(t, ok)
	require.Len(t, evA.EventSets, 1)
	require.Equal(t, []string{"B"}, evA.EventSets[NewEventSet([]string{"B"}).Key()].Flatten())

	evB, ok := g.Event("B")
	require.True(t, ok)
	require.Len(t, evB.InEventSets, 1)
	require.Equal(t, "A", g.Root())
	require.Equal(t, []string{"B"}, g.Out("A"))
}

func TestBuildGraphFromTraces_AccumulatesAcrossMultipleTraces(t *testing.T) {
	trace1 := traceOf(
		&TraceEvent{EventID: "a1", EventType: "A", ChildEventIDs: []string{"b1"}, StartTimestamp: at(0), EndTimestamp: at(1)},
		&TraceEvent{EventID: "b1", EventType: "B", ParentEventID: "a1", StartTimestamp: at(1), EndTimestamp: at(2)},
	)
	trace2 := traceOf(
		&TraceEvent{EventID: "a2", EventType: "A", ChildEventIDs: []string{"c2"}, StartTimestamp: at(0), EndTimestamp: at(1)},
		&TraceEvent{EventID: "c2", EventType: "C", ParentEventID: "a2", StartTimestamp: at(1), EndTimestamp: at(2)},
	)

	g, err := BuildGraphFromTraces([]SequencedTrace{trace1, trace2})
	require.NoError(t, err)
	evA, _ := g.Event("A")
	require.Len(t, evA.EventSets, 2)
}
