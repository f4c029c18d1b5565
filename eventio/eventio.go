// Package eventio implements the two persisted JSON shapes spec.md §6
// names: the "Event set file format" (a job's events with their forward/
// backward EventSet evidence) and "Process-tree serialization for logic
// gates" (a ProcessTree as nested {operator, children[]} / {label}
// records). Persistence itself — where the bytes come from or go — is out
// of the core's scope per spec.md §1; this package only implements the
// documented wire shape, using encoding/json as every pack repo that
// serializes domain structs does (no third-party JSON library appears
// anywhere in the pack).
package eventio

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// CountEntry is one {"eventType": T, "count": N} member of a serialized
// EventSet.
type CountEntry struct {
	EventType string `json:"eventType"`
	Count     int    `json:"count"`
}

// EventDoc is one event's serialized forward/backward evidence.
type EventDoc struct {
	EventType         string         `json:"eventType"`
	OutgoingEventSets [][]CountEntry `json:"outgoingEventSets"`
	IncomingEventSets [][]CountEntry `json:"incomingEventSets"`
}

// Document is the top-level persisted-inference-state shape of §6.
type Document struct {
	JobName string     `json:"job_name"`
	Events  []EventDoc `json:"events"`
}

// Encode serializes events (job name plus a map keyed by event type) into
// a Document, in event-type-sorted order for deterministic output.
func Encode(jobName string, events map[string]*eventmodel.Event) Document {
	doc := Document{JobName: jobName}
	for _, t := range sortedEventTypes(events) {
		ev := events[t]
		doc.Events = append(doc.Events, EventDoc{
			EventType:         ev.EventType,
			OutgoingEventSets: encodeEventSets(ev.EventSets),
			IncomingEventSets: encodeEventSets(ev.InEventSets),
		})
	}
	return doc
}

// Marshal encodes events as indented JSON text matching §6's document
// shape.
func Marshal(jobName string, events map[string]*eventmodel.Event) ([]byte, error) {
	return json.MarshalIndent(Encode(jobName, events), "", "  ")
}

// Decode reconstructs an Event collection from a Document. The returned
// map is keyed by event type, the same shape Encode and Marshal take.
func Decode(doc Document) (map[string]*eventmodel.Event, error) {
	events := make(map[string]*eventmodel.Event, len(doc.Events))
	for _, ed := range doc.Events {
		if ed.EventType == "" {
			return nil, fmt.Errorf("%w: event with empty eventType", eventmodel.ErrInputShape)
		}
		ev := eventmodel.NewEvent(ed.EventType, ed.EventType)
		for _, es := range ed.OutgoingEventSets {
			ev.UpdateEventSets(flatten(es))
		}
		for _, es := range ed.IncomingEventSets {
			ev.UpdateInEventSets(flatten(es))
		}
		events[ed.EventType] = ev
	}
	return events, nil
}

// Unmarshal parses JSON text per §6's document shape and reconstructs the
// Event collection.
func Unmarshal(data []byte) (string, map[string]*eventmodel.Event, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("eventio: parse: %w", err)
	}
	events, err := Decode(doc)
	if err != nil {
		return "", nil, err
	}
	return doc.JobName, events, nil
}

func encodeEventSets(sets map[string]eventmodel.EventSet) [][]CountEntry {
	if len(sets) == 0 {
		return nil
	}
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]CountEntry, 0, len(sets))
	for _, k := range keys {
		es := sets[k]
		types := make([]string, 0, len(es))
		for t := range es {
			types = append(types, t)
		}
		sort.Strings(types)
		entries := make([]CountEntry, 0, len(types))
		for _, t := range types {
			entries = append(entries, CountEntry{EventType: t, Count: es[t]})
		}
		out = append(out, entries)
	}
	return out
}

func flatten(entries []CountEntry) []string {
	var out []string
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			out = append(out, e.EventType)
		}
	}
	return out
}

func sortedEventTypes(events map[string]*eventmodel.Event) []string {
	out := make([]string, 0, len(events))
	for t := range events {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
