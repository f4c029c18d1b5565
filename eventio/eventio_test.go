package eventio

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// Round-trip law (§8): serialize an Event collection, parse it back, and
// the reconstructed events' event_sets equal the originals as multi-sets.
func TestMarshalUnmarshal_RoundTripsEventSets(t *testing.T) {
	a := eventmodel.NewEvent("A", "A")
	a.UpdateEventSets([]string{"B", "C"})
	a.UpdateEventSets([]string{"B", "B"})
	b := eventmodel.NewEvent("B", "B")
	b.UpdateInEventSets([]string{"A"})

	events := map[string]*eventmodel.Event{"A": a, "B": b}

	data, err := Marshal("job1", events)
	require.NoError(t, err)

	jobName, decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, "job1", jobName)
	require.Len(t, decoded, 2)

	for eventType, original := range events {
		got, ok := decoded[eventType]
		require.True(t, ok)
		requireEventSetsEqual(t, original.EventSets, got.EventSets)
		requireEventSetsEqual(t, original.InEventSets, got.InEventSets)
	}
}

func requireEventSetsEqual(t *testing.T, want, got map[string]eventmodel.EventSet) {
	t.Helper()
	require.Len(t, got, len(want))
	for key, es := range want {
		gotES, ok := got[key]
		require.True(t, ok, "missing EventSet %q", key)
		require.True(t, es.Equal(gotES))
	}
}

func TestUnmarshal_RejectsEmptyEventType(t *testing.T) {
	_, _, err := Unmarshal([]byte(`{"job_name":"j","events":[{"eventType":""}]}`))
	require.Error(t, err)
}

// Idempotent recomputation (§8): a ProcessTree round-tripped through the
// wire shape is equal under tree isomorphism to the original.
func TestMarshalUnmarshalTree_RoundTrips(t *testing.T) {
	tree := eventmodel.NewNode(eventmodel.OpXor,
		eventmodel.Leaf("B"),
		eventmodel.NewNode(eventmodel.OpAnd, eventmodel.Leaf("C"), eventmodel.Leaf("D")),
	)

	data, err := MarshalTree(tree)
	require.NoError(t, err)

	got, err := UnmarshalTree(data)
	require.NoError(t, err)
	require.True(t, tree.Equal(got))
}

func TestMarshalUnmarshalTree_NilTree(t *testing.T) {
	data, err := MarshalTree(nil)
	require.NoError(t, err)
	require.Equal(t, "null", string(data))

	got, err := UnmarshalTree(data)
	require.NoError(t, err)
	require.Nil(t, got)
}
