package eventmodel

// Reserved event types (§6).
const (
	DummyStartEventType = "|||START|||"
	DummyEndEventType    = "|||END|||"
	DummyBreakEventType  = "DUMMY_BREAK_EVENT_TYPE"
)

// Event is the unit of inference: a domain-unique activity type plus the
// forward/backward multiset evidence observed for it across all traces.
type Event struct {
	EventType string
	UID       string

	// EventSets holds forward evidence (what has followed an occurrence of
	// this type), keyed by EventSet.Key() so repeated observations collapse.
	EventSets map[string]EventSet
	// InEventSets holds backward evidence (what has preceded it).
	InEventSets map[string]EventSet

	// logicTree/logicDirty implement the §5 cache semantics: eager
	// invalidate, lazy recompute. A nil logicTree with logicDirty == false
	// is a cached "no tree" (empty EventSets), distinct from "never
	// computed" (logicDirty == true).
	logicTree  *ProcessTree
	logicDirty bool
}

// NewEvent constructs an empty Event ready to accumulate evidence.
func NewEvent(eventType, uid string) *Event {
	return &Event{
		EventType:   eventType,
		UID:         uid,
		EventSets:   make(map[string]EventSet),
		InEventSets: make(map[string]EventSet),
		logicDirty:  true,
	}
}

// UpdateEventSets adds the EventSet built from types as forward evidence.
func (e *Event) UpdateEventSets(types []string) {
	es := NewEventSet(types)
	if len(es) == 0 {
		return
	}
	e.EventSets[es.Key()] = es
	e.logicDirty = true
}

// UpdateInEventSets adds the EventSet built from types as backward evidence.
func (e *Event) UpdateInEventSets(types []string) {
	es := NewEventSet(types)
	if len(es) == 0 {
		return
	}
	e.InEventSets[es.Key()] = es
	e.logicDirty = true
}

// RemoveEventTypeFromEventSets drops every forward EventSet containing t.
// Used by loop rewriting when an edge is severed.
func (e *Event) RemoveEventTypeFromEventSets(t string) {
	for k, es := range e.EventSets {
		if es.Contains(t) {
			delete(e.EventSets, k)
		}
	}
	e.logicDirty = true
}

// RemoveEventTypeFromInEventSets drops every backward EventSet containing t.
func (e *Event) RemoveEventTypeFromInEventSets(t string) {
	for k, es := range e.InEventSets {
		if es.Contains(t) {
			delete(e.InEventSets, k)
		}
	}
	e.logicDirty = true
}

// ReducedEventSets returns the distinct reduced (count-stripped) key sets of
// the forward EventSets, as a slice of type-sets.
func (e *Event) ReducedEventSets() []map[string]struct{} {
	out := make([]map[string]struct{}, 0, len(e.EventSets))
	for _, es := range e.EventSets {
		out = append(out, es.ReducedKeySet())
	}
	return out
}

// EventSetCounts returns, for each successor type, the distinct counts that
// type has taken across all forward EventSets. A type with more than one
// distinct count triggers branch-repeat detection (§4.B phase 6).
func (e *Event) EventSetCounts() map[string]map[int]struct{} {
	out := make(map[string]map[int]struct{})
	for _, es := range e.EventSets {
		for t, n := range es {
			if out[t] == nil {
				out[t] = make(map[int]struct{})
			}
			out[t][n] = struct{}{}
		}
	}
	return out
}

// IsLogicDirty reports whether the cached logic tree is stale relative to
// the current EventSets.
func (e *Event) IsLogicDirty() bool {
	return e.logicDirty
}

// CachedLogicTree returns the cached tree and true if the cache is fresh.
func (e *Event) CachedLogicTree() (*ProcessTree, bool) {
	if e.logicDirty {
		return nil, false
	}
	return e.logicTree, true
}

// SetLogicTree stores a freshly computed logic tree and clears the dirty
// flag. Called by the logic package after recomputation.
func (e *Event) SetLogicTree(tree *ProcessTree) {
	e.logicTree = tree
	e.logicDirty = false
}

// LoopEvent is a synthetic Event replacing a strongly connected component
// (§4.C). Its SubGraph is itself a fully processed EventGraph.
type LoopEvent struct {
	Event
	SubGraph  *EventGraph
	StartUID  string
	EndUID    string
	BreakUIDs []string
}

// NewLoopEvent constructs a LoopEvent wrapping a subgraph.
func NewLoopEvent(eventType, uid string, subGraph *EventGraph, startUID, endUID string, breakUIDs []string) *LoopEvent {
	return &LoopEvent{
		Event:     *NewEvent(eventType, uid),
		SubGraph:  subGraph,
		StartUID:  startUID,
		EndUID:    endUID,
		BreakUIDs: breakUIDs,
	}
}
