package loopgraph

import (
	"github.com/google/uuid"
	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// buildSubGraph implements §4.C "Subgraph construction": moves the SCC's
// nodes (plus any break nodes pulled in as exits) out of graph's arena and
// into a freshly built subgraph, wired start-to-end through synthetic
// DUMMY_START/DUMMY_END events.
func buildSubGraph(l *loop, graph *eventmodel.EventGraph) (*eventmodel.EventGraph, string, string, error) {
	movedSet := map[string]struct{}{}
	for n := range l.nodes {
		movedSet[n] = struct{}{}
	}
	for _, b := range l.breakUIDs {
		movedSet[b] = struct{}{}
	}

	loopEdgeSet := map[[2]string]struct{}{}
	for _, e := range l.loopEdges {
		loopEdgeSet[e] = struct{}{}
	}

	// Every edge that does not survive into the subgraph (loop edges, and
	// edges to or from outside it) also drops its evidence from the moved
	// events' forward/backward EventSets.
	var intraEdges [][2]string
	for n := range movedSet {
		ev := graph.MustEvent(n)
		for _, out := range graph.Out(n) {
			_, inside := movedSet[out]
			_, isLoopEdge := loopEdgeSet[[2]string{n, out}]
			if !inside || isLoopEdge {
				ev.RemoveEventTypeFromEventSets(graph.MustEvent(out).EventType)
				continue
			}
			intraEdges = append(intraEdges, [2]string{n, out})
		}
		for _, in := range graph.In(n) {
			_, inside := movedSet[in]
			_, isLoopEdge := loopEdgeSet[[2]string{in, n}]
			if !inside || isLoopEdge {
				ev.RemoveEventTypeFromInEventSets(graph.MustEvent(in).EventType)
			}
		}
	}

	subGraph := eventmodel.NewEventGraph()
	for n := range movedSet {
		subGraph.AddEvent(graph.MustEvent(n))
	}
	for n := range movedSet {
		graph.RemoveNode(n)
	}
	for _, edge := range intraEdges {
		if err := subGraph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, "", "", err
		}
	}

	startEvent := eventmodel.NewEvent(eventmodel.DummyStartEventType, uuid.NewString())
	endEvent := eventmodel.NewEvent(eventmodel.DummyEndEventType, uuid.NewString())
	subGraph.AddEvent(startEvent)
	subGraph.AddEvent(endEvent)

	var startTypes []string
	for _, s := range l.startUIDs {
		startTypes = append(startTypes, subGraph.MustEvent(s).EventType)
	}
	for _, s := range l.startUIDs {
		if err := subGraph.AddEdge(startEvent.UID, s); err != nil {
			return nil, "", "", err
		}
		subGraph.MustEvent(s).UpdateInEventSets([]string{eventmodel.DummyStartEventType})
	}
	if len(startTypes) > 0 {
		startEvent.UpdateEventSets(startTypes)
	}

	var endTypes []string
	for _, e := range l.endUIDs {
		endTypes = append(endTypes, subGraph.MustEvent(e).EventType)
	}
	for _, e := range l.endUIDs {
		if err := subGraph.AddEdge(e, endEvent.UID); err != nil {
			return nil, "", "", err
		}
		subGraph.MustEvent(e).UpdateEventSets([]string{eventmodel.DummyEndEventType})
	}
	if len(endTypes) > 0 {
		endEvent.UpdateInEventSets(endTypes)
	}

	subGraph.SetRoot(startEvent.UID)
	return subGraph, startEvent.UID, endEvent.UID, nil
}

// rewriteGraphWithLoopEvent implements the enclosing-graph half of §4.C:
// the LoopEvent takes the place of every predecessor-of-start and
// successor-of-end edge, and gains an edge to every break's external
// target.
func rewriteGraphWithLoopEvent(l *loop, loopEvent *eventmodel.LoopEvent, graph *eventmodel.EventGraph) error {
	wasRoot := graph.Root() != "" && inSet(l.nodes, graph.Root())
	graph.AddLoopEvent(loopEvent)
	if wasRoot {
		graph.SetRoot(loopEvent.UID)
	}

	for s, preds := range l.externalPreStart {
		startType := l.startEventTypes[s]
		for _, pred := range preds {
			predEv := graph.MustEvent(pred)
			predEv.RemoveEventTypeFromEventSets(startType)
			predEv.UpdateEventSets([]string{loopEvent.EventType})
			loopEvent.UpdateInEventSets([]string{predEv.EventType})
			if err := graph.AddEdge(pred, loopEvent.UID); err != nil {
				return err
			}
		}
	}

	for _, succs := range l.externalPostEnd {
		for _, succ := range succs {
			succEv := graph.MustEvent(succ)
			succEv.UpdateInEventSets([]string{loopEvent.EventType})
			loopEvent.UpdateEventSets([]string{succEv.EventType})
			if err := graph.AddEdge(loopEvent.UID, succ); err != nil {
				return err
			}
		}
	}

	for _, b := range l.breakUIDs {
		for _, target := range l.breakExternalTargets[b] {
			targetEv := graph.MustEvent(target)
			targetEv.UpdateInEventSets([]string{loopEvent.EventType})
			loopEvent.UpdateEventSets([]string{targetEv.EventType})
			if err := graph.AddEdge(loopEvent.UID, target); err != nil {
				return err
			}
		}
	}

	// §4.C's "delete unreachable nodes" step, applied immediately after each
	// SCC collapse rather than deferred to the caller, so a nested rewrite
	// never carries stale unreachable nodes into the next DetectLoops pass.
	graph.PruneUnreachable()

	return nil
}

func inSet(set map[string]struct{}, uid string) bool {
	_, ok := set[uid]
	return ok
}
