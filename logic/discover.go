// Package logic infers, for a single eventmodel.Event, the ProcessTree
// describing the logic gate governing its successors (§4.B).
//
// The original system feeds a synthetic permutation-expanded log into an
// external inductive process-tree miner (pm4py) and then reshapes its
// output. Because every synthetic trace here is, by construction, exactly
// one permutation of one reduced event-set, the miner's job degenerates to
// a closed-form cut-detection problem: two successor types are concurrent
// iff some observed event-set contains both, and they are mutually
// exclusive iff no observed event-set ever contains both. That is exactly
// the co-occurrence/connected-components construction in cuts.go, which
// replaces logic_detection.py's calculate_process_tree_from_event_sets and
// reduce_process_tree_to_preferred_logic_gates (phases 1-4) with a direct,
// terminating procedure instead of an external black box. Phases 5-9
// (missing-AND insertion, branch-repeat detection, repeat expansion,
// defunct-SEQ removal, branch-tree sanity check) are ported as described.
package logic

import "github.com/tel2puml-go/tel2puml/eventmodel"

// Discover computes event's forward logic gate tree, caching the result on
// the event per the §5 lazy-recompute cache semantics. A second call with
// unchanged EventSets returns the cached tree without recomputation.
func Discover(event *eventmodel.Event) (*eventmodel.ProcessTree, error) {
	if tree, fresh := event.CachedLogicTree(); fresh {
		return tree, nil
	}

	if len(event.EventSets) == 0 {
		event.SetLogicTree(nil)
		return nil, nil
	}

	tree := discoverCutTree(reducedSetsOf(event))
	tree = insertMissingAndGates(tree, event)
	tree = flattenAssociative(tree, eventmodel.OpOr)
	tree = flattenAssociative(tree, eventmodel.OpXor)
	tree = applyBranchAndRepeats(tree, event)

	event.SetLogicTree(tree)
	return tree, nil
}

// reducedSetsOf returns the distinct reduced (count-stripped) successor
// key-sets observed for event, deduplicated.
func reducedSetsOf(event *eventmodel.Event) []map[string]struct{} {
	seen := make(map[string]bool)
	var out []map[string]struct{}
	for _, es := range event.EventSets {
		reduced := es.ReducedKeySet()
		key := eventmodel.EventSet(setToCounts(reduced)).Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, reduced)
	}
	return out
}

func setToCounts(s map[string]struct{}) map[string]int {
	out := make(map[string]int, len(s))
	for k := range s {
		out[k] = 1
	}
	return out
}
