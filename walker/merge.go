package walker

import "github.com/tel2puml-go/tel2puml/eventmodel"

// maxMergeIterations bounds the per-branch reachability search. The source
// walker's forced-merge escape hatch guards against a rotation loop that
// never converges (§4.D step 5, and the Open Question in spec.md §9); this
// implementation replaces the incremental rotate-and-retry search with a
// closed-form reachability search (sound because, after loopgraph has
// collapsed every SCC, the graph being walked is always a DAG — see
// DESIGN.md), but keeps the same hard bound and the same fatal error
// rather than ever looping silently.
const maxMergeIterations = 100000

// findMerge searches, from each of starts, for the nearest node reachable
// from every branch — the point at which the operator's paths structurally
// reconverge. If no single node is reachable from every branch, ok is false
// and the caller marks every branch of the operator as a kill path.
func findMerge(graph *eventmodel.EventGraph, starts []string) (string, bool, error) {
	if len(starts) == 0 {
		return "", false, nil
	}

	depths := make([]map[string]int, len(starts))
	for i, s := range starts {
		d, err := bfsDepth(graph, s)
		if err != nil {
			return "", false, err
		}
		depths[i] = d
	}

	startSet := map[string]bool{}
	for _, s := range starts {
		startSet[s] = true
	}

	bestUID := ""
	bestDepth := -1
	for uid, d0 := range depths[0] {
		if startSet[uid] {
			continue
		}
		maxDepth := d0
		reachableByAll := true
		for _, d := range depths[1:] {
			dd, ok := d[uid]
			if !ok {
				reachableByAll = false
				break
			}
			if dd > maxDepth {
				maxDepth = dd
			}
		}
		if !reachableByAll {
			continue
		}
		if bestDepth == -1 || maxDepth < bestDepth || (maxDepth == bestDepth && uid < bestUID) {
			bestDepth = maxDepth
			bestUID = uid
		}
	}
	if bestDepth == -1 {
		return "", false, nil
	}
	return bestUID, true, nil
}

// bfsDepth computes, for every node reachable from start (start included at
// depth 0), the length of the shortest path from start.
func bfsDepth(graph *eventmodel.EventGraph, start string) (map[string]int, error) {
	depth := map[string]int{start: 0}
	queue := []string{start}
	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range graph.Out(cur) {
			if _, seen := depth[next]; seen {
				continue
			}
			depth[next] = depth[cur] + 1
			queue = append(queue, next)
			visited++
			if visited > maxMergeIterations {
				return nil, errMergeSearchExhausted
			}
		}
	}
	return depth, nil
}
