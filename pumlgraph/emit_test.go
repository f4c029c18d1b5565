package pumlgraph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tel2puml-go/tel2puml/eventmodel"
)

func TestEmit_LinearSequence(t *testing.T) {
	g := &Graph{
		Name: "job1",
		Elements: []*Node{
			{Type: NodeEvent, EventType: "A"},
			{Type: NodeEvent, EventType: "B"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, g))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "@startuml\n"))
	require.True(t, strings.HasSuffix(out, "@enduml\n"))
	require.Contains(t, out, ":A;")
	require.Contains(t, out, ":B;")
	require.Contains(t, out, "partition \"job1\"")
}

func TestEmit_AndOperatorForksAndKills(t *testing.T) {
	g := &Graph{
		Elements: []*Node{
			{
				Type:     NodeOperator,
				Operator: eventmodel.OpAnd,
				Branches: []*Graph{
					{Elements: []*Node{{Type: NodeEvent, EventType: "B"}}},
					{Elements: []*Node{{Type: NodeEvent, EventType: "X"}}},
				},
				KillFlags: []bool{false, true},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, g))
	out := buf.String()
	require.Contains(t, out, "fork\n")
	require.Contains(t, out, "fork again\n")
	require.Contains(t, out, "end fork\n")
	require.Contains(t, out, "kill\n")
}

func TestEmit_LoopNodeWrapsBody(t *testing.T) {
	g := &Graph{
		Elements: []*Node{
			{
				Type:      NodeEvent,
				EventType: "LOOP_1",
				Tags:      map[string]bool{TagLoop: true},
				Loop: &Graph{
					Elements: []*Node{{Type: NodeEvent, EventType: "A"}},
				},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, g))
	out := buf.String()
	require.Contains(t, out, "repeat\n")
	require.Contains(t, out, ":A;")
	require.Contains(t, out, "repeat while (LOOP_1);")
}

func TestEmit_BreakTagEmitsBreakAfterEvent(t *testing.T) {
	g := &Graph{
		Elements: []*Node{
			{Type: NodeEvent, EventType: "X", Tags: map[string]bool{TagBreak: true}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, g))
	out := buf.String()
	require.Contains(t, out, ":X;")
	require.Contains(t, out, "break\n")
}
