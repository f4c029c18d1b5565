package eventmodel

import (
	"fmt"
	"sort"
)

// EventEdge is an ordered pair of event uids: from -> to.
type EventEdge struct {
	From string
	To   string
}

// EventGraph is a directed graph over Events, arena-addressed by uid rather
// than by pointer (per the Design Notes in spec.md §9): nodes live in a
// single map, edges are uid pairs in adjacency maps. This lets loop
// rewriting move ownership of a set of uids into a child graph's arena by
// deleting map entries here and inserting them there, with no pointer
// cycles to unwind.
//
// Invariant (maintained through every rewrite): for every edge (u, v),
// v.EventType appears in at least one of u's EventSets, and u.EventType
// appears in at least one of v's InEventSets.
type EventGraph struct {
	nodes map[string]*Event
	// loopEvents tracks the subset of nodes that are actually LoopEvents, so
	// callers (the walker, tests) can recover subgraph/break-uid data that
	// an *Event handle alone can't carry.
	loopEvents map[string]*LoopEvent
	// out[uid] is the ordered, de-duplicated list of uids uid has an edge to.
	out map[string][]string
	// in[uid] is the ordered, de-duplicated list of uids with an edge to uid.
	in map[string][]string
	// root is the uid of the graph's entry event, if one has been set.
	root string
}

// NewEventGraph constructs an empty graph.
func NewEventGraph() *EventGraph {
	return &EventGraph{
		nodes:      make(map[string]*Event),
		loopEvents: make(map[string]*LoopEvent),
		out:        make(map[string][]string),
		in:         make(map[string][]string),
	}
}

// AddEvent registers ev in the graph's arena, keyed by ev.UID.
func (g *EventGraph) AddEvent(ev *Event) {
	g.nodes[ev.UID] = ev
	if _, ok := g.out[ev.UID]; !ok {
		g.out[ev.UID] = nil
	}
	if _, ok := g.in[ev.UID]; !ok {
		g.in[ev.UID] = nil
	}
}

// AddLoopEvent registers le's embedded Event in the arena and records le
// itself so LoopEvent returns it later.
func (g *EventGraph) AddLoopEvent(le *LoopEvent) {
	g.AddEvent(&le.Event)
	g.loopEvents[le.UID] = le
}

// LoopEvent returns the LoopEvent registered at uid, and whether one exists.
func (g *EventGraph) LoopEvent(uid string) (*LoopEvent, bool) {
	le, ok := g.loopEvents[uid]
	return le, ok
}

// SetRoot marks uid as the graph's entry event.
func (g *EventGraph) SetRoot(uid string) { g.root = uid }

// Root returns the graph's entry event uid, or "" if unset.
func (g *EventGraph) Root() string { return g.root }

// Event returns the event with the given uid, and whether it exists.
func (g *EventGraph) Event(uid string) (*Event, bool) {
	ev, ok := g.nodes[uid]
	return ev, ok
}

// MustEvent returns the event with the given uid, panicking if absent. Used
// only where the caller has already established the uid exists (e.g. it was
// just returned from Out/In on this same graph).
func (g *EventGraph) MustEvent(uid string) *Event {
	ev, ok := g.nodes[uid]
	if !ok {
		panic(fmt.Sprintf("eventmodel: uid %q not in graph arena", uid))
	}
	return ev
}

// Nodes returns every uid currently in the graph's arena, in no particular
// order. Callers that need determinism should sort the result.
func (g *EventGraph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for uid := range g.nodes {
		out = append(out, uid)
	}
	return out
}

// SortedNodes returns Nodes() sorted lexically, for deterministic iteration
// in tests and in any pass whose result must not depend on map order.
func (g *EventGraph) SortedNodes() []string {
	nodes := g.Nodes()
	sort.Strings(nodes)
	return nodes
}

// AddEdge adds a structural edge from -> to. Both uids must already be in
// the arena. Duplicate edges are not re-added.
func (g *EventGraph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("eventmodel: AddEdge: from uid %q not in graph", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("eventmodel: AddEdge: to uid %q not in graph", to)
	}
	for _, existing := range g.out[from] {
		if existing == to {
			return nil
		}
	}
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
	return nil
}

// RemoveEdge removes the edge from -> to, if present.
func (g *EventGraph) RemoveEdge(from, to string) {
	g.out[from] = removeString(g.out[from], to)
	g.in[to] = removeString(g.in[to], from)
}

// RemoveNode deletes uid and every edge touching it from the arena.
func (g *EventGraph) RemoveNode(uid string) {
	for _, succ := range g.out[uid] {
		g.in[succ] = removeString(g.in[succ], uid)
	}
	for _, pred := range g.in[uid] {
		g.out[pred] = removeString(g.out[pred], uid)
	}
	delete(g.out, uid)
	delete(g.in, uid)
	delete(g.nodes, uid)
	delete(g.loopEvents, uid)
}

// Out returns the ordered successor uids of uid.
func (g *EventGraph) Out(uid string) []string { return g.out[uid] }

// In returns the ordered predecessor uids of uid.
func (g *EventGraph) In(uid string) []string { return g.in[uid] }

// Edges returns every edge in the graph, in no particular order.
func (g *EventGraph) Edges() []EventEdge {
	var edges []EventEdge
	for from, tos := range g.out {
		for _, to := range tos {
			edges = append(edges, EventEdge{From: from, To: to})
		}
	}
	return edges
}

// Len returns the number of events in the arena.
func (g *EventGraph) Len() int { return len(g.nodes) }

// Reachable returns the set of uids reachable from start by following
// outgoing edges, including start itself.
func (g *EventGraph) Reachable(start string) map[string]struct{} {
	seen := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.out[cur] {
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// HasPath reports whether to is reachable from from.
func (g *EventGraph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	_, ok := g.Reachable(from)[to]
	return ok
}

// PruneUnreachable deletes every node not reachable from the graph's root.
// A no-op if the root is unset.
func (g *EventGraph) PruneUnreachable() {
	if g.root == "" {
		return
	}
	reachable := g.Reachable(g.root)
	for _, uid := range g.Nodes() {
		if _, ok := reachable[uid]; !ok {
			g.RemoveNode(uid)
		}
	}
}

func removeString(ss []string, target string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
