// Package pumlgraph is the output model for the inference pipeline: a
// PlantUML activity graph (§3 "PUMLGraph") and its textual emitter (§4.E).
// It is not part of the inference core proper — its correctness is not
// governed by §8's testable invariants — but it gives the pipeline a
// runnable, human-checkable end point.
package pumlgraph

import "github.com/tel2puml-go/tel2puml/eventmodel"

// NodeType distinguishes an event-node from a paired operator block.
type NodeType int

const (
	NodeEvent NodeType = iota
	NodeOperator
)

// Behavioural tags carried on an event-node, mirroring §3's event_types tag
// set on the walker's Node.
const (
	TagBreak  = "BREAK"
	TagLoop   = "LOOP"
	TagMerge  = "MERGE"
	TagBranch = "BRANCH"
)

// Node is one element of a Graph: either a single activity (:EventType;)
// or an operator block (switch/fork/split) containing its branches.
//
// A tree of Nodes, rather than a flat stack of paired start/end markers, is
// this implementation's representation for a well-nested PUMLGraph: the
// well-nestedness §4.D's LogicBlockHolder machinery has to earn through
// careful stack discipline falls out for free from Go's own tree shape
// here. See DESIGN.md for the walker's merge-detection substitution this
// representation enables.
type Node struct {
	Type NodeType

	// Event-node fields.
	EventType string
	Tags      map[string]bool
	Loop      *Graph // nested body, set iff Tags[TagLoop]

	// Operator-node fields.
	Operator  eventmodel.Operator
	Branches  []*Graph
	KillFlags []bool // parallel to Branches; true if that branch never rejoins
}

// HasTag reports whether n carries the given behavioural tag.
func (n *Node) HasTag(tag string) bool {
	return n.Tags != nil && n.Tags[tag]
}

// Graph is an ordered sequence of Nodes — one straight-line run of a PUML
// activity body, possibly with Nodes that themselves nest another Graph
// (operator branches, loop bodies).
type Graph struct {
	// Name labels the partition/group wrapper in Emit; typically the job
	// name the graph was built for.
	Name     string
	Elements []*Node
}
