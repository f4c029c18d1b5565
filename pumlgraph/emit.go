package pumlgraph

import (
	"fmt"
	"io"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// Emit writes g as a single PlantUML activity-diagram document: @startuml,
// one partition { group { ... } } enclosing the body, @enduml (§6 "PlantUML
// output"). This is the "straightforward tree walk" §4.E describes — all
// the interesting work already happened building the Graph.
func Emit(w io.Writer, g *Graph) error {
	name := g.Name
	if name == "" {
		name = "process"
	}
	if _, err := fmt.Fprintln(w, "@startuml"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "partition %s {\n", quote(name)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "group %s {\n", quote(name)); err != nil {
		return err
	}
	if err := emitGraph(w, g, 1); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "@enduml")
	return err
}

func emitGraph(w io.Writer, g *Graph, indent int) error {
	for _, n := range g.Elements {
		if err := emitNode(w, n, indent); err != nil {
			return err
		}
	}
	return nil
}

func emitNode(w io.Writer, n *Node, indent int) error {
	switch n.Type {
	case NodeEvent:
		return emitEventNode(w, n, indent)
	case NodeOperator:
		return emitOperatorNode(w, n, indent)
	default:
		return fmt.Errorf("pumlgraph: unknown node type %d", n.Type)
	}
}

func emitEventNode(w io.Writer, n *Node, indent int) error {
	if n.HasTag(TagLoop) {
		if _, err := fmt.Fprintf(w, "%srepeat\n", pad(indent)); err != nil {
			return err
		}
		if n.Loop != nil {
			if err := emitGraph(w, n.Loop, indent+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%srepeat while (%s);\n", pad(indent), n.EventType)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s:%s;\n", pad(indent), n.EventType); err != nil {
		return err
	}
	if n.HasTag(TagBreak) {
		if _, err := fmt.Fprintf(w, "%sbreak\n", pad(indent)); err != nil {
			return err
		}
	}
	return nil
}

func emitOperatorNode(w io.Writer, n *Node, indent int) error {
	open, sep, close := blockKeywords(n.Operator)
	if _, err := fmt.Fprintf(w, "%s%s\n", pad(indent), open); err != nil {
		return err
	}
	for i, branch := range n.Branches {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "%s%s\n", pad(indent), sep); err != nil {
				return err
			}
		}
		if err := emitGraph(w, branch, indent+1); err != nil {
			return err
		}
		if i < len(n.KillFlags) && n.KillFlags[i] {
			if _, err := fmt.Fprintf(w, "%skill\n", pad(indent+1)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%s%s\n", pad(indent), close)
	return err
}

func blockKeywords(op eventmodel.Operator) (open, sep, close string) {
	switch op {
	case eventmodel.OpAnd:
		return "fork", "fork again", "end fork"
	case eventmodel.OpOr:
		return "split", "split again", "end split"
	default: // OpXor and anything else falls back to exclusive choice
		return "switch (choice)", "case ()", "endswitch"
	}
}

func pad(indent int) string {
	out := make([]byte, indent*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
