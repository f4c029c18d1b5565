package loopgraph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// loop holds the components computed for one strongly connected component
// before it is collapsed into a LoopEvent (§4.C "Loop components
// computation").
//
// breakUIDs names nodes that, at computation time, live outside the SCC but
// are pulled into the loop's subgraph as break exits (this implementation's
// resolution of the spec's two descriptions of break events: §4.C describes
// them as external, while §8's invariant requires every break_uid to be a
// node of L.sub_graph — see DESIGN.md).
type loop struct {
	nodes     map[string]struct{}
	startUIDs []string
	endUIDs   []string
	breakUIDs []string
	// breakSources[b] lists the SCC node(s) with an edge into break node b.
	breakSources map[string][]string
	// breakExternalTargets[b] lists the uids b itself pointed to, outside
	// the SCC, before being moved into the subgraph; these become edges
	// from the LoopEvent in the enclosing graph.
	breakExternalTargets map[string][]string
	// loopEdges are end->start back-edges, removed and replaced by the
	// DUMMY_START/DUMMY_END wiring inside the subgraph.
	loopEdges [][2]string
	// externalPreStart[s] lists predecessors of start node s that live
	// outside the SCC; these gain an edge to the LoopEvent in the
	// enclosing graph.
	externalPreStart map[string][]string
	// externalPostEnd[e] lists successors of end node e that live outside
	// the SCC (the loop's normal, non-break continuation); these gain an
	// edge from the LoopEvent in the enclosing graph.
	externalPostEnd map[string][]string
	// startEventTypes records the event types of the start uids, captured
	// before the nodes move into the subgraph's arena.
	startEventTypes map[string]string
}

// DetectLoops finds every non-trivial SCC in graph and replaces it with a
// LoopEvent carrying a fully processed subgraph, recursively. It mutates and
// returns graph.
func DetectLoops(graph *eventmodel.EventGraph) (*eventmodel.EventGraph, error) {
	for {
		sccs := tarjanSCC(graph)
		if len(sccs) == 0 {
			return graph, nil
		}
		l := calcLoopComponents(sccs[0], graph)
		subGraph, startUID, endUID, err := buildSubGraph(l, graph)
		if err != nil {
			return nil, err
		}
		subGraph, err = DetectLoops(subGraph)
		if err != nil {
			return nil, err
		}

		loopEvent := eventmodel.NewLoopEvent(
			nextLoopEventType(graph), uuid.NewString(), subGraph, startUID, endUID, l.breakUIDs,
		)
		if err := rewriteGraphWithLoopEvent(l, loopEvent, graph); err != nil {
			return nil, err
		}
	}
}

func nextLoopEventType(graph *eventmodel.EventGraph) string {
	max := 0
	for _, uid := range graph.Nodes() {
		ev := graph.MustEvent(uid)
		if strings.HasPrefix(ev.EventType, "LOOP_") {
			if n, err := strconv.Atoi(strings.TrimPrefix(ev.EventType, "LOOP_")); err == nil && n > max {
				max = n
			}
		}
	}
	return fmt.Sprintf("LOOP_%d", max+1)
}

// calcLoopComponents implements §4.C's start/end/break computation for one
// SCC.
func calcLoopComponents(sccNodes []string, graph *eventmodel.EventGraph) *loop {
	nodeSet := make(map[string]struct{}, len(sccNodes))
	for _, n := range sccNodes {
		nodeSet[n] = struct{}{}
	}

	startSet := map[string]struct{}{}
	for n := range nodeSet {
		for _, in := range graph.In(n) {
			if _, inside := nodeSet[in]; !inside {
				startSet[n] = struct{}{}
				break
			}
		}
	}

	exitNodes := map[string]struct{}{}
	for n := range nodeSet {
		for _, out := range graph.Out(n) {
			if _, inside := nodeSet[out]; !inside {
				exitNodes[n] = struct{}{}
				break
			}
		}
	}

	noBackAdj := inducedNoBackEdges(nodeSet, startSet, graph)
	candidateEnds := map[string]struct{}{}
	for n := range nodeSet {
		for _, s := range sortedKeys(startSet) {
			if edgeExists(graph, n, s) {
				candidateEnds[n] = struct{}{}
				break
			}
		}
	}
	endSet := map[string]struct{}{}
	for n := range candidateEnds {
		dominated := false
		for other := range candidateEnds {
			if other == n {
				continue
			}
			if hasPathIn(noBackAdj, n, other) && !hasPathIn(noBackAdj, other, n) {
				dominated = true
				break
			}
		}
		if !dominated {
			endSet[n] = struct{}{}
		}
	}

	endNodesWithExits := map[string]struct{}{}
	for n := range endSet {
		if _, ok := exitNodes[n]; ok {
			endNodesWithExits[n] = struct{}{}
		}
	}
	breakOutNodes := map[string]struct{}{}
	for n := range exitNodes {
		if _, ok := endNodesWithExits[n]; !ok {
			breakOutNodes[n] = struct{}{}
		}
	}

	breakSources := map[string][]string{}
	breakExternalTargets := map[string][]string{}
	breakSet := map[string]struct{}{}
	for _, n := range sortedKeys(breakOutNodes) {
		for _, out := range graph.Out(n) {
			if _, inside := nodeSet[out]; inside {
				continue
			}
			if len(endNodesWithExits) > 0 {
				reentersStart := false
				for s := range startSet {
					if graph.HasPath(out, s) {
						reentersStart = true
						break
					}
				}
				if reentersStart {
					continue
				}
			}
			breakSet[out] = struct{}{}
			breakSources[out] = append(breakSources[out], n)
		}
	}

	movedSet := map[string]struct{}{}
	for n := range nodeSet {
		movedSet[n] = struct{}{}
	}
	for b := range breakSet {
		movedSet[b] = struct{}{}
	}
	for b := range breakSet {
		for _, out := range graph.Out(b) {
			if _, inside := movedSet[out]; !inside {
				breakExternalTargets[b] = append(breakExternalTargets[b], out)
			}
		}
	}

	var loopEdges [][2]string
	for e := range endSet {
		for _, out := range graph.Out(e) {
			if _, isStart := startSet[out]; isStart {
				loopEdges = append(loopEdges, [2]string{e, out})
			}
		}
	}

	externalPreStart := map[string][]string{}
	for s := range startSet {
		for _, in := range graph.In(s) {
			if _, inside := nodeSet[in]; !inside {
				externalPreStart[s] = append(externalPreStart[s], in)
			}
		}
	}
	externalPostEnd := map[string][]string{}
	for e := range endSet {
		for _, out := range graph.Out(e) {
			if _, inside := nodeSet[out]; inside {
				continue
			}
			externalPostEnd[e] = append(externalPostEnd[e], out)
		}
	}

	startEventTypes := map[string]string{}
	for s := range startSet {
		startEventTypes[s] = graph.MustEvent(s).EventType
	}

	return &loop{
		nodes:                nodeSet,
		startUIDs:            sortedKeys(startSet),
		endUIDs:              sortedKeys(endSet),
		breakUIDs:            sortedKeys(breakSet),
		breakSources:         breakSources,
		breakExternalTargets: breakExternalTargets,
		loopEdges:            loopEdges,
		externalPreStart:     externalPreStart,
		externalPostEnd:      externalPostEnd,
		startEventTypes:      startEventTypes,
	}
}

func edgeExists(graph *eventmodel.EventGraph, from, to string) bool {
	for _, out := range graph.Out(from) {
		if out == to {
			return true
		}
	}
	return false
}

// inducedNoBackEdges builds the adjacency of the SCC restricted to its own
// nodes with edges into start nodes removed, so reachability within it
// reflects linear order rather than the trivial all-pairs reachability of
// a full cycle.
func inducedNoBackEdges(nodeSet, startSet map[string]struct{}, graph *eventmodel.EventGraph) map[string][]string {
	adj := map[string][]string{}
	for n := range nodeSet {
		for _, out := range graph.Out(n) {
			if _, inside := nodeSet[out]; !inside {
				continue
			}
			if _, isStart := startSet[out]; isStart {
				continue
			}
			adj[n] = append(adj[n], out)
		}
	}
	return adj
}

func hasPathIn(adj map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, w := range adj[n] {
			if w == to {
				return true
			}
			if !visited[w] {
				stack = append(stack, w)
			}
		}
	}
	return false
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
