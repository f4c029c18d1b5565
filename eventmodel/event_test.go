package eventmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvent_UpdateEventSetsMarksDirty(t *testing.T) {
	e := NewEvent("A", "a")
	e.SetLogicTree(Leaf("B"))
	require.False(t, e.IsLogicDirty())

	e.UpdateEventSets([]string{"B"})
	require.True(t, e.IsLogicDirty())

	_, fresh := e.CachedLogicTree()
	require.False(t, fresh)
}

func TestEvent_UpdateEventSetsIdempotent(t *testing.T) {
	e := NewEvent("A", "a")
	e.UpdateEventSets([]string{"B", "C"})
	e.UpdateEventSets([]string{"C", "B"})
	require.Len(t, e.EventSets, 1)
}

func TestEvent_RemoveEventTypeFromEventSets(t *testing.T) {
	e := NewEvent("A", "a")
	e.UpdateEventSets([]string{"B"})
	e.UpdateEventSets([]string{"C"})
	e.SetLogicTree(Leaf("x"))

	e.RemoveEventTypeFromEventSets("B")
	require.Len(t, e.EventSets, 1)
	require.True(t, e.IsLogicDirty())
}

func TestEvent_EventSetCountsDetectsVaryingMultiplicity(t *testing.T) {
	e := NewEvent("A", "a")
	e.UpdateEventSets([]string{"B"})
	e.UpdateEventSets([]string{"B", "B"})

	counts := e.EventSetCounts()
	require.Len(t, counts["B"], 2)
}

func TestLoopEvent_EmbedsEvent(t *testing.T) {
	sub := NewEventGraph()
	le := NewLoopEvent("LOOP_1", "loop-1", sub, "start", "end", []string{"brk"})
	require.Equal(t, "LOOP_1", le.EventType)
	require.Equal(t, sub, le.SubGraph)
	require.Equal(t, []string{"brk"}, le.BreakUIDs)
}
