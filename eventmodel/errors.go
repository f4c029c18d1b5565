package eventmodel

import "errors"

// Sentinel errors per spec.md §7's taxonomy. They are declared once here,
// in the base data-model package, since every other package (logic,
// loopgraph, walker) already imports eventmodel and wraps these with
// fmt.Errorf("...: %w", ...) at the point of detection.
var (
	// ErrInputShape: an event referenced as parent/child does not exist, or
	// a trace has zero or more than one root.
	ErrInputShape = errors.New("tel2puml: input shape invalid")

	// ErrResidualCycle: after loop-edge removal a residual cycle remains in
	// the parent graph — a bug in loop rewriting, not a user error.
	ErrResidualCycle = errors.New("tel2puml: residual cycle after loop rewrite")

	// ErrSubgraphSplit: a loop subgraph's SCC nodes are not weakly
	// connected after subgraph construction.
	ErrSubgraphSplit = errors.New("tel2puml: loop subgraph is not weakly connected")

	// ErrMergeExhausted: the walker's merge-point reachability search
	// exceeded its hard iteration bound.
	ErrMergeExhausted = errors.New("tel2puml: walker merge resolution exhausted")
)
