// Package walker implements §4.D: it turns an annotated eventmodel.EventGraph
// (events already carrying their B-computed logic trees, SCCs already
// collapsed to LoopEvents by loopgraph) into a pumlgraph.Graph.
package walker

import (
	"github.com/tel2puml-go/tel2puml/eventmodel"
	"github.com/tel2puml-go/tel2puml/logic"
)

// Behavioural tags, mirroring pumlgraph's (duplicated here rather than
// imported so walker's Node stays independent of the output package until
// toPUMLNode does the translation).
const (
	tagBreak  = "BREAK"
	tagLoop   = "LOOP"
	tagBranch = "BRANCH"
)

// Node is the walker's own representation (§3 "Node / SubGraphNode"): a
// graph event, or a synthetic operator node introduced while expanding a
// ProcessTree into Node shape.
type Node struct {
	UID       string // empty for synthetic operator Nodes
	EventType string // empty for synthetic operator Nodes
	Operator  eventmodel.Operator
	Tags      map[string]bool
	IsStub    bool

	// OutgoingLogic is "the rest of the path after this event", loaded from
	// the event's own ProcessTree by loadLogicTree. It holds at most one
	// entry: either the single successor event Node (implicit sequence) or
	// one synthetic operator Node whose own OutgoingLogic holds the
	// operator's branches.
	OutgoingLogic []*Node

	// SubGraph/BreakUIDs are set iff this Node wraps a LoopEvent.
	SubGraph  *nodeGraph
	BreakUIDs []string
}

func (n *Node) tag(t string) {
	if n.Tags == nil {
		n.Tags = map[string]bool{}
	}
	n.Tags[t] = true
}

// HasTag reports whether n carries behavioural tag t.
func (n *Node) HasTag(t string) bool { return n.Tags != nil && n.Tags[t] }

// nodeGraph is the built Node-graph for one eventmodel.EventGraph (the
// top-level graph, or a loop's subgraph): every event's Node plus the
// structural graph needed for merge-point search.
type nodeGraph struct {
	graph *eventmodel.EventGraph
	nodes map[string]*Node
	root  string
}

// buildNodeGraph converts graph into Node shape: one Node per event,
// logic trees loaded into OutgoingLogic, LoopEvents recursively expanded
// into nested nodeGraphs with BREAK tags applied to their break uids.
func buildNodeGraph(graph *eventmodel.EventGraph) (*nodeGraph, error) {
	ng := &nodeGraph{graph: graph, nodes: map[string]*Node{}, root: graph.Root()}

	for _, uid := range graph.SortedNodes() {
		ev := graph.MustEvent(uid)
		n := &Node{UID: uid, EventType: ev.EventType}
		if le, ok := graph.LoopEvent(uid); ok {
			n.tag(tagLoop)
			n.BreakUIDs = le.BreakUIDs
			sub, err := buildNodeGraph(le.SubGraph)
			if err != nil {
				return nil, err
			}
			TagBreaks(sub, le.BreakUIDs)
			n.SubGraph = sub
		}
		ng.nodes[uid] = n
	}

	for _, uid := range graph.SortedNodes() {
		ev := graph.MustEvent(uid)
		tree, err := logic.Discover(ev)
		if err != nil {
			return nil, err
		}
		n := ng.nodes[uid]
		resolve := ng.leafResolver(uid)
		if child := buildLogicNode(tree, resolve); child != nil {
			n.OutgoingLogic = []*Node{child}
		}
	}

	return ng, nil
}

// leafResolver returns a function mapping a successor event type, as named
// by a ProcessTree leaf under fromUID, to the already-built Node for the
// matching structural successor — or a stub Node if none is found (§4.D:
// "creating an is_stub=true placeholder if no such Node exists").
func (ng *nodeGraph) leafResolver(fromUID string) func(string) *Node {
	return func(label string) *Node {
		for _, out := range ng.graph.Out(fromUID) {
			if ng.graph.MustEvent(out).EventType == label {
				return ng.nodes[out]
			}
		}
		return &Node{EventType: label, IsStub: true}
	}
}

// buildLogicNode expands one ProcessTree into Node shape (§4.D "Logic-tree
// to Node-list expansion"). A BRANCH tags the node it resolves to and
// descends into its single child; SEQ is transparent (already stripped by
// B in practice, handled here only defensively); AND/OR/XOR produce a
// synthetic operator Node whose OutgoingLogic holds one resolved Node per
// child branch.
func buildLogicNode(tree *eventmodel.ProcessTree, resolve func(string) *Node) *Node {
	if tree == nil {
		return nil
	}
	if tree.Operator == eventmodel.OpBranch {
		child := buildLogicNode(tree.Children[0], resolve)
		if child != nil {
			child.tag(tagBranch)
		}
		return child
	}
	if tree.IsLeaf() {
		if tree.IsTau() {
			return nil
		}
		return resolve(tree.Label)
	}
	if tree.Operator == eventmodel.OpSeq {
		// Transparent: the first child is the immediate next hop; any
		// further children are unreachable here because the logic package
		// rewrites every SEQ node to AND (removeDefunctSeq), but
		// defensively take the first.
		if len(tree.Children) == 0 {
			return nil
		}
		return buildLogicNode(tree.Children[0], resolve)
	}

	op := &Node{Operator: tree.Operator}
	for _, c := range tree.Children {
		op.OutgoingLogic = append(op.OutgoingLogic, buildLogicNode(c, resolve))
	}
	return op
}

// TagBreaks marks every Node in sub whose uid is in breakUIDs with BREAK
// (§4's supplemented "legacy node-update hook": a post-hoc tag amendment
// applied before the subgraph is walked).
func TagBreaks(sub *nodeGraph, breakUIDs []string) {
	for _, uid := range breakUIDs {
		if n, ok := sub.nodes[uid]; ok {
			n.tag(tagBreak)
		}
	}
}
