// Package loopgraph detects cycle structure in an eventmodel.EventGraph and
// rewrites every non-trivial strongly connected component into a single
// LoopEvent whose subgraph is itself fully processed (§4.C).
package loopgraph

import "github.com/tel2puml-go/tel2puml/eventmodel"

// tarjanSCC runs Tarjan's algorithm and returns every strongly connected
// component with more than one node, plus any single-node component that
// has a self-loop edge. Trivial single-node components without a self-edge
// are omitted, matching the "skip" rule in §4.C's termination note.
func tarjanSCC(graph *eventmodel.EventGraph) [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var result [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.Out(v) {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var component []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			if len(component) > 1 || hasSelfLoop(graph, component[0]) {
				result = append(result, component)
			}
		}
	}

	for _, uid := range graph.SortedNodes() {
		if _, seen := indices[uid]; !seen {
			strongconnect(uid)
		}
	}
	return result
}

func hasSelfLoop(graph *eventmodel.EventGraph, uid string) bool {
	for _, out := range graph.Out(uid) {
		if out == uid {
			return true
		}
	}
	return false
}
