package walker

import (
	"github.com/tel2puml-go/tel2puml/eventmodel"
	"github.com/tel2puml-go/tel2puml/pumlgraph"
)

// Walk builds the PUMLGraph for graph (§4.D's entry point). name labels the
// resulting graph's partition/group wrapper at emission time.
func Walk(graph *eventmodel.EventGraph, name string) (*pumlgraph.Graph, error) {
	ng, err := buildNodeGraph(graph)
	if err != nil {
		return nil, err
	}
	if ng.root == "" {
		return &pumlgraph.Graph{Name: name}, nil
	}
	g, _, err := walkFrom(ng, ng.root, nil)
	if err != nil {
		return nil, err
	}
	g.Name = name
	return g, nil
}

// walkFrom walks ng starting at uid, appending PUML nodes until it either
// runs off the end of the graph or reaches a uid in stop (the merge point
// the caller is waiting for). It returns the uid it stopped at, or "" if
// it ran to a natural end.
func walkFrom(ng *nodeGraph, uid string, stop map[string]bool) (*pumlgraph.Graph, string, error) {
	g := &pumlgraph.Graph{}
	cur := uid
	for {
		if stop != nil && stop[cur] {
			return g, cur, nil
		}
		node := ng.nodes[cur]
		elem, err := toPUMLNode(ng, node)
		if err != nil {
			return nil, "", err
		}
		g.Elements = append(g.Elements, elem)

		if len(node.OutgoingLogic) == 0 {
			return g, "", nil
		}
		next := node.OutgoingLogic[0]
		if next == nil {
			return g, "", nil
		}
		if next.Operator == "" {
			if next.IsStub {
				// No structural successor exists for this logic-tree leaf;
				// emit it as a terminal placeholder rather than dereferencing
				// a uid absent from the arena (§4.D "is_stub" placeholder).
				g.Elements = append(g.Elements, &pumlgraph.Node{
					Type:      pumlgraph.NodeEvent,
					EventType: next.EventType,
					Tags:      map[string]bool{},
				})
				return g, "", nil
			}
			// Implicit sequence: advance the cursor to the next event.
			cur = next.UID
			continue
		}

		opElem, landedAt, err := walkOperator(ng, next)
		if err != nil {
			return nil, "", err
		}
		g.Elements = append(g.Elements, opElem)
		if landedAt == "" {
			return g, "", nil
		}
		cur = landedAt
	}
}

// walkOperator processes one AND/OR/XOR fork: finds where the branches
// reconverge (if anywhere), walks each branch up to that point, and marks
// any branch that cannot reach it as a kill path.
func walkOperator(ng *nodeGraph, op *Node) (*pumlgraph.Node, string, error) {
	starts := make([]string, 0, len(op.OutgoingLogic))
	for _, b := range op.OutgoingLogic {
		if b != nil && !b.IsStub {
			starts = append(starts, b.UID)
		}
	}

	merge, found, err := findMerge(ng.graph, starts)
	if err != nil {
		return nil, "", err
	}

	var stop map[string]bool
	if found {
		stop = map[string]bool{merge: true}
	}

	branches := make([]*pumlgraph.Graph, len(op.OutgoingLogic))
	kills := make([]bool, len(op.OutgoingLogic))
	for i, b := range op.OutgoingLogic {
		if b == nil {
			branches[i] = &pumlgraph.Graph{}
			kills[i] = true
			continue
		}
		if b.IsStub {
			// A stub has no uid in the arena: emit it as a one-node branch
			// that cannot reach the merge point.
			branches[i] = &pumlgraph.Graph{Elements: []*pumlgraph.Node{{
				Type:      pumlgraph.NodeEvent,
				EventType: b.EventType,
				Tags:      map[string]bool{},
			}}}
			kills[i] = true
			continue
		}
		bg, landedAt, err := walkFrom(ng, b.UID, stop)
		if err != nil {
			return nil, "", err
		}
		branches[i] = bg
		kills[i] = !(found && landedAt == merge)
	}

	elem := &pumlgraph.Node{
		Type:      pumlgraph.NodeOperator,
		Operator:  op.Operator,
		Branches:  branches,
		KillFlags: kills,
	}
	if !found {
		return elem, "", nil
	}
	return elem, merge, nil
}

// toPUMLNode renders a single walker Node (not its OutgoingLogic) as a
// pumlgraph event-node, recursing into its loop body first if it has one.
func toPUMLNode(ng *nodeGraph, node *Node) (*pumlgraph.Node, error) {
	elem := &pumlgraph.Node{
		Type:      pumlgraph.NodeEvent,
		EventType: node.EventType,
		Tags:      map[string]bool{},
	}
	if node.HasTag(tagBreak) {
		elem.Tags[pumlgraph.TagBreak] = true
	}
	if node.HasTag(tagBranch) {
		elem.Tags[pumlgraph.TagBranch] = true
	}
	if node.HasTag(tagLoop) && node.SubGraph != nil {
		elem.Tags[pumlgraph.TagLoop] = true
		sub, _, err := walkFrom(node.SubGraph, node.SubGraph.root, nil)
		if err != nil {
			return nil, err
		}
		elem.Loop = sub
	}
	return elem, nil
}
