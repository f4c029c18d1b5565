package logic

import "github.com/tel2puml-go/tel2puml/eventmodel"

// applyBranchAndRepeats implements §4.B phases 6-9:
//
//	6. branch-count detection: if any successor type was observed with more
//	   than one distinct multiplicity across the event's EventSets, the whole
//	   tree is wrapped in a BRANCH node signalling a variable branch count.
//	7. repeat expansion: a leaf whose type was always observed with the same
//	   fixed count k > 1 is expanded into an AND of k copies of that leaf.
//	8. defunct-SEQ removal: a no-op here since discoverCutTree never produces
//	   a SEQ node, kept as an explicit pass in case a future cut rule does.
//	9. branch-tree sanity check: under a BRANCH root, any AND or OR child
//	   whose members never co-occur in a single observed EventSet is not
//	   really concurrent evidence — demote it to XOR, then re-flatten.
func applyBranchAndRepeats(tree *eventmodel.ProcessTree, event *eventmodel.Event) *eventmodel.ProcessTree {
	if tree == nil {
		return nil
	}
	tree = expandRepeats(tree, event.EventSetCounts())
	tree = removeDefunctSeq(tree)

	if !hasVariableBranchCount(event.EventSetCounts()) {
		return tree
	}

	branch := eventmodel.NewNode(eventmodel.OpBranch, tree)
	sanityCheckBranchTree(branch, event)
	branch = flattenAssociative(branch, eventmodel.OpXor)
	return branch
}

// hasVariableBranchCount reports whether any successor type took more than
// one distinct multiplicity.
func hasVariableBranchCount(counts map[string]map[int]struct{}) bool {
	for _, cs := range counts {
		if len(cs) > 1 {
			return true
		}
	}
	return false
}

// expandRepeats replaces every leaf whose type has a single fixed
// multiplicity k > 1 with an AND of k copies of that leaf.
func expandRepeats(tree *eventmodel.ProcessTree, counts map[string]map[int]struct{}) *eventmodel.ProcessTree {
	if tree == nil {
		return nil
	}
	if tree.IsLeaf() {
		cs, ok := counts[tree.Label]
		if !ok || len(cs) != 1 {
			return tree
		}
		var k int
		for n := range cs {
			k = n
		}
		if k <= 1 {
			return tree
		}
		copies := make([]*eventmodel.ProcessTree, k)
		for i := range copies {
			copies[i] = eventmodel.Leaf(tree.Label)
		}
		return eventmodel.NewNode(eventmodel.OpAnd, copies...)
	}
	for i, c := range tree.Children {
		tree.Children[i] = expandRepeats(c, counts)
	}
	return tree
}

// removeDefunctSeq strips any OpSeq node down to its children wrapped in an
// AND, since nothing in this package's construction distinguishes a
// sequential gate from a concurrent one once cut detection has run.
func removeDefunctSeq(tree *eventmodel.ProcessTree) *eventmodel.ProcessTree {
	if tree == nil || tree.IsLeaf() {
		return tree
	}
	for i, c := range tree.Children {
		tree.Children[i] = removeDefunctSeq(c)
	}
	if tree.Operator == eventmodel.OpSeq {
		tree.Operator = eventmodel.OpAnd
	}
	return tree
}

// sanityCheckBranchTree demotes AND/OR nodes whose children never all
// co-occur in a single observed EventSet to XOR, in place.
func sanityCheckBranchTree(tree *eventmodel.ProcessTree, event *eventmodel.Event) {
	if tree == nil || tree.IsLeaf() {
		return
	}
	for _, c := range tree.Children {
		sanityCheckBranchTree(c, event)
	}
	if tree.Operator != eventmodel.OpAnd && tree.Operator != eventmodel.OpOr {
		return
	}
	leaves := tree.Leaves()
	if len(leaves) < 2 {
		return
	}
	if !coOccurInSomeEventSet(leaves, event) {
		tree.Operator = eventmodel.OpXor
	}
}

// coOccurInSomeEventSet reports whether all of leaves appear together in at
// least one of event's observed forward EventSets.
func coOccurInSomeEventSet(leaves []string, event *eventmodel.Event) bool {
	for _, es := range event.EventSets {
		all := true
		for _, l := range leaves {
			if !es.Contains(l) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
