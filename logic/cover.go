package logic

import (
	"sort"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// insertMissingAndGates implements §4.B phase 5: for every OR node whose
// children are all leaves, compute a minimum-cardinality weighted set cover
// of the node's leaf universe using the event's reduced event-sets that are
// proper subsets of that universe. Multi-element cover members become AND
// nodes, singletons stay leaves. If no cover exists the OR is left as-is
// (every child a bare leaf) — a documented, conservative fallback for
// evidence too sparse to reconstruct the AND substructure exactly.
func insertMissingAndGates(tree *eventmodel.ProcessTree, event *eventmodel.Event) *eventmodel.ProcessTree {
	if tree == nil {
		return nil
	}
	if tree.IsLeaf() {
		return tree
	}
	for i, child := range tree.Children {
		tree.Children[i] = insertMissingAndGates(child, event)
	}

	if tree.Operator != eventmodel.OpOr {
		return tree
	}
	universe := make(map[string]struct{}, len(tree.Children))
	allLeaves := true
	for _, c := range tree.Children {
		if !c.IsLeaf() {
			allLeaves = false
			break
		}
		universe[c.Label] = struct{}{}
	}
	if !allLeaves {
		return tree
	}

	candidates := candidateSubsets(event, universe)
	cover := WeightedCover(candidates, universe)
	if cover == nil {
		return tree
	}

	children := make([]*eventmodel.ProcessTree, 0, len(cover))
	for _, subset := range cover {
		children = append(children, andOfLeaves(sortedKeys(subset)))
	}
	sortChildrenByLabel(children)
	tree.Children = children
	return tree
}

// candidateSubsets returns every distinct reduced event-set of event that is
// a proper subset of universe, in a deterministic order (by key) so that
// WeightedCover's tie-breaking does not depend on map iteration order.
func candidateSubsets(event *eventmodel.Event, universe map[string]struct{}) []map[string]struct{} {
	seen := make(map[string]bool)
	byKey := make(map[string]map[string]struct{})
	for _, es := range event.EventSets {
		reduced := es.ReducedKeySet()
		if len(reduced) >= len(universe) || !isSubsetOfUniverse(reduced, universe) {
			continue
		}
		key := eventmodel.EventSet(setToCounts(reduced)).Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		byKey[key] = reduced
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]struct{}, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func isSubsetOfUniverse(s, universe map[string]struct{}) bool {
	for k := range s {
		if _, ok := universe[k]; !ok {
			return false
		}
	}
	return true
}

// WeightedCover finds a minimum-cardinality collection of candidate subsets
// whose union equals universe exactly (no element left uncovered), breaking
// ties by total subset-count weight (fewer, larger subsets preferred) and
// then by lexical order for determinism. Returns nil if no exact cover
// exists. Candidate sets are small in practice (bounded by one event's
// successor fan-out), so an exhaustive search is both correct and cheap.
func WeightedCover(candidates []map[string]struct{}, universe map[string]struct{}) []map[string]struct{} {
	target := sortedKeys(universe)
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	var best []map[string]struct{}
	var search func(covered map[string]struct{}, chosen []map[string]struct{}, start int)
	search = func(covered map[string]struct{}, chosen []map[string]struct{}, start int) {
		if len(covered) == len(target) {
			if best == nil || len(chosen) < len(best) {
				cpy := make([]map[string]struct{}, len(chosen))
				copy(cpy, chosen)
				best = cpy
			}
			return
		}
		if best != nil && len(chosen) >= len(best) {
			return
		}
		for i := start; i < len(candidates); i++ {
			next := unionSets(covered, candidates[i])
			if len(next) == len(covered) {
				continue // no progress
			}
			search(next, append(chosen, candidates[i]), i+1)
		}
	}
	search(map[string]struct{}{}, nil, 0)
	return best
}

func unionSets(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// flattenAssociative implements §4.B phase 4 (generalised to both OR and
// XOR, per the "flatten nested XORs" instruction in phase 9): any node with
// the given operator whose parent carries the same operator is absorbed
// into its parent.
func flattenAssociative(tree *eventmodel.ProcessTree, op eventmodel.Operator) *eventmodel.ProcessTree {
	if tree == nil || tree.IsLeaf() {
		return tree
	}
	for i, c := range tree.Children {
		tree.Children[i] = flattenAssociative(c, op)
	}
	if tree.Operator != op {
		return tree
	}
	var flat []*eventmodel.ProcessTree
	for _, c := range tree.Children {
		if !c.IsLeaf() && c.Operator == op {
			flat = append(flat, c.Children...)
		} else {
			flat = append(flat, c)
		}
	}
	tree.Children = flat
	return tree
}
