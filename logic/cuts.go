package logic

import (
	"sort"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// discoverCutTree builds the logic gate tree for one or more distinct
// reduced event-sets by repeatedly cutting the successor universe into
// connected components under the co-occurrence relation ("these two types
// were seen together in some observation"). A single remaining reduced set
// becomes an AND of its members (or a bare leaf); more than one component
// becomes an XOR of the recursively cut components; a single connected
// component spanning more than one reduced set becomes an OR, refined by
// missing-AND insertion (see cover.go).
func discoverCutTree(reducedSets []map[string]struct{}) *eventmodel.ProcessTree {
	if len(reducedSets) == 0 {
		return nil
	}
	if len(reducedSets) == 1 {
		return andOfLeaves(sortedKeys(reducedSets[0]))
	}

	components := connectedComponents(reducedSets)
	if len(components) > 1 {
		children := make([]*eventmodel.ProcessTree, 0, len(components))
		for _, component := range components {
			children = append(children, discoverCutTree(projectOnto(reducedSets, component)))
		}
		sortChildrenByLabel(children)
		return eventmodel.NewNode(eventmodel.OpXor, children...)
	}

	universe := components[0]
	children := make([]*eventmodel.ProcessTree, 0, len(universe))
	for _, label := range sortedKeys(universe) {
		children = append(children, eventmodel.Leaf(label))
	}
	return eventmodel.NewNode(eventmodel.OpOr, children...)
}

func andOfLeaves(labels []string) *eventmodel.ProcessTree {
	if len(labels) == 1 {
		return eventmodel.Leaf(labels[0])
	}
	children := make([]*eventmodel.ProcessTree, len(labels))
	for i, l := range labels {
		children[i] = eventmodel.Leaf(l)
	}
	return eventmodel.NewNode(eventmodel.OpAnd, children...)
}

// connectedComponents groups the union of all labels across reducedSets
// into components where two labels are connected iff some reduced set
// contains both.
func connectedComponents(reducedSets []map[string]struct{}) []map[string]struct{} {
	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, rs := range reducedSets {
		for label := range rs {
			if _, ok := parent[label]; !ok {
				parent[label] = label
			}
		}
	}
	for _, rs := range reducedSets {
		keys := sortedKeys(rs)
		for i := 1; i < len(keys); i++ {
			union(keys[0], keys[i])
		}
	}

	grouped := make(map[string]map[string]struct{})
	for label := range parent {
		root := find(label)
		if grouped[root] == nil {
			grouped[root] = make(map[string]struct{})
		}
		grouped[root][label] = struct{}{}
	}

	roots := make([]string, 0, len(grouped))
	for root := range grouped {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	components := make([]map[string]struct{}, 0, len(roots))
	for _, root := range roots {
		components = append(components, grouped[root])
	}
	return components
}

// projectOnto returns the subset of reducedSets that lie entirely within
// component (every reduced set either is fully inside a component or fully
// outside it, since co-occurrence defines the component boundary).
func projectOnto(reducedSets []map[string]struct{}, component map[string]struct{}) []map[string]struct{} {
	var out []map[string]struct{}
	for _, rs := range reducedSets {
		inside := false
		for label := range rs {
			if _, ok := component[label]; ok {
				inside = true
				break
			}
		}
		if inside {
			out = append(out, rs)
		}
	}
	return out
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortChildrenByLabel(children []*eventmodel.ProcessTree) {
	sort.Slice(children, func(i, j int) bool {
		return firstLeaf(children[i]) < firstLeaf(children[j])
	})
}

func firstLeaf(t *eventmodel.ProcessTree) string {
	leaves := t.Leaves()
	if len(leaves) == 0 {
		return ""
	}
	return leaves[0]
}
