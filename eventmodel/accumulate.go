package eventmodel

// BuildGraphFromTraces accumulates one or more already-sequenced traces
// (event id -> event, plus each event's previous-event ids as computed by
// SequenceJob) into a single EventGraph, creating one Event per distinct
// event type and folding every trace occurrence's neighbour multiset into
// that Event's forward/backward EventSets. Accumulation is commutative and
// idempotent: observing the same (type, successor-multiset) pair twice
// leaves the Event unchanged, since EventSets are keyed by content.
func BuildGraphFromTraces(traces []SequencedTrace) (*EventGraph, error) {
	g := NewEventGraph()
	eventByType := make(map[string]*Event)

	ensure := func(eventType string) *Event {
		if ev, ok := eventByType[eventType]; ok {
			return ev
		}
		ev := NewEvent(eventType, eventType)
		eventByType[eventType] = ev
		g.AddEvent(ev)
		return ev
	}

	for _, trace := range traces {
		// nextIDs inverts PreviousEventIDs, so forward evidence follows the
		// same sequenced order as backward evidence.
		nextIDs := make(map[string][]string)
		for id, prevIDs := range trace.PreviousEventIDs {
			for _, prevID := range prevIDs {
				nextIDs[prevID] = append(nextIDs[prevID], id)
			}
		}
		for eventID, ev := range trace.Events {
			curType := ev.EventType
			ensure(curType)

			prevIDs := trace.PreviousEventIDs[eventID]
			prevTypes := make([]string, 0, len(prevIDs))
			for _, prevID := range prevIDs {
				prevEv, ok := trace.Events[prevID]
				if !ok {
					return nil, ErrInputShape
				}
				prevTypes = append(prevTypes, prevEv.EventType)
			}
			if len(prevTypes) > 0 {
				ensure(curType).UpdateInEventSets(prevTypes)
				for _, prevType := range prevTypes {
					ensure(prevType)
				}
			}

			childTypes := make([]string, 0, len(nextIDs[eventID]))
			for _, childID := range nextIDs[eventID] {
				childEv, ok := trace.Events[childID]
				if !ok {
					return nil, ErrInputShape
				}
				childTypes = append(childTypes, childEv.EventType)
			}
			if len(childTypes) > 0 {
				ensure(curType).UpdateEventSets(childTypes)
				for _, childType := range childTypes {
					ensure(childType)
				}
			}
		}
	}

	for fromType, fromEv := range eventByType {
		for _, es := range fromEv.EventSets {
			for toType := range es {
				if err := g.AddEdge(fromType, toType); err != nil {
					return nil, err
				}
			}
		}
	}

	root := findGraphRoot(eventByType)
	if root != "" {
		g.SetRoot(root)
	}
	return g, nil
}

// SequencedTrace bundles one trace's events with the previous-event-id
// assignment SequenceJob computed for it.
type SequencedTrace struct {
	Events           map[string]*TraceEvent
	PreviousEventIDs map[string][]string
}

func findGraphRoot(eventByType map[string]*Event) string {
	for t, ev := range eventByType {
		if len(ev.InEventSets) == 0 {
			return t
		}
	}
	return ""
}
