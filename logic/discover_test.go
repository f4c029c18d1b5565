package logic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tel2puml-go/tel2puml/eventmodel"
)

func TestDiscover_EmptyEventSetsYieldsNilTree(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Nil(t, tree)
	require.False(t, event.IsLogicDirty())
}

func TestDiscover_SingleReducedSetIsAnd(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B", "C"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpAnd, tree.Operator)
	require.ElementsMatch(t, []string{"B", "C"}, tree.Leaves())
}

// Scenario 1 (spec §8): A's only successor is B; B's three observed
// successor sets are each a single disjoint type, so B's gate is XOR(C,D,E).
func TestDiscover_DisjointSingletonsAreXor(t *testing.T) {
	event := eventmodel.NewEvent("B", "b1")
	event.UpdateEventSets([]string{"C"})
	event.UpdateEventSets([]string{"D"})
	event.UpdateEventSets([]string{"E"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpXor, tree.Operator)
	require.ElementsMatch(t, []string{"C", "D", "E"}, tree.Leaves())
}

// Scenario 2 (spec §8): nested AND under one XOR branch.
func TestDiscover_NestedAndUnderXor(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B"})
	event.UpdateEventSets([]string{"D", "E"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpXor, tree.Operator)
	require.Len(t, tree.Children, 2)

	var sawLeafB, sawAnd bool
	for _, c := range tree.Children {
		if c.IsLeaf() && c.Label == "B" {
			sawLeafB = true
		}
		if c.Operator == eventmodel.OpAnd {
			sawAnd = true
			require.ElementsMatch(t, []string{"D", "E"}, c.Leaves())
		}
	}
	require.True(t, sawLeafB)
	require.True(t, sawAnd)
}

// Scenario 3 (spec §8): {B}, {C}, {B,C} observed together collapse to a
// plain OR(B,C): with the full-universe set excluded from candidacy, the
// remaining candidates {B} and {C} cover the universe as singletons, so the
// children stay bare leaves.
func TestDiscover_OrGateNoMissingAnd(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B"})
	event.UpdateEventSets([]string{"C"})
	event.UpdateEventSets([]string{"B", "C"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpOr, tree.Operator)
	require.ElementsMatch(t, []string{"B", "C"}, tree.Leaves())
	for _, c := range tree.Children {
		require.True(t, c.IsLeaf())
	}
}

// Missing-AND insertion: B, C and D pairwise co-occur ({B,C}, {C,D}, {B,D})
// but never all three together, so the co-occurrence graph is one connected
// component and the cut lands on a bare OR(B,C,D); insertMissingAndGates
// then covers the universe with the minimum number of pairwise observations
// (two overlapping pairs, {B,C} and {B,D}) and rewrites the leaves into
// AND-of-pairs children.
func TestDiscover_OrGateInsertsMissingAnd(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B", "C"})
	event.UpdateEventSets([]string{"C", "D"})
	event.UpdateEventSets([]string{"B", "D"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpOr, tree.Operator)
	require.ElementsMatch(t, []string{"B", "B", "C", "D"}, tree.Leaves())

	for _, c := range tree.Children {
		require.False(t, c.IsLeaf(), "expected cover to replace bare leaves with AND pairs")
		require.Equal(t, eventmodel.OpAnd, c.Operator)
		require.Len(t, c.Leaves(), 2)
	}
}

// Scenario 6 (spec §8): a successor type observed with varying multiplicity
// triggers a BRANCH wrapper; a fixed multiplicity > 1 expands into a repeat
// AND.
func TestDiscover_BranchCountWrapsTree(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.EventSets[eventmodel.NewEventSet([]string{"B"}).Key()] = eventmodel.NewEventSet([]string{"B"})
	event.EventSets[eventmodel.NewEventSet([]string{"B", "B"}).Key()] = eventmodel.NewEventSet([]string{"B", "B"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpBranch, tree.Operator)
	require.Contains(t, tree.Leaves(), "B")
}

func TestDiscover_FixedRepeatExpandsToAnd(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B", "B", "B"})

	tree, err := Discover(event)
	require.NoError(t, err)
	require.Equal(t, eventmodel.OpAnd, tree.Operator)
	require.Equal(t, []string{"B", "B", "B"}, tree.Leaves())
}

func TestDiscover_CachesUntilEventSetsChange(t *testing.T) {
	event := eventmodel.NewEvent("A", "a1")
	event.UpdateEventSets([]string{"B"})

	first, err := Discover(event)
	require.NoError(t, err)
	require.False(t, event.IsLogicDirty())

	second, ok := event.CachedLogicTree()
	require.True(t, ok)
	require.True(t, first.Equal(second))

	event.UpdateEventSets([]string{"C"})
	require.True(t, event.IsLogicDirty())
}
