// Package tel2puml wires the four inference components (A eventmodel, B
// logic, C loopgraph, D walker) into a single entry point, plus the
// ambient pumlgraph emitter and runconfig/obslog pieces described in
// SPEC_FULL.md. It is the one package an enclosing CLI (out of scope per
// spec.md §1) imports.
package tel2puml

import (
	"fmt"

	"github.com/tel2puml-go/tel2puml/eventmodel"
	"github.com/tel2puml-go/tel2puml/loopgraph"
	"github.com/tel2puml-go/tel2puml/obslog"
	"github.com/tel2puml-go/tel2puml/pumlgraph"
	"github.com/tel2puml-go/tel2puml/runconfig"
	"github.com/tel2puml-go/tel2puml/tracehash"
	"github.com/tel2puml-go/tel2puml/walker"
)

// Job is one job-name's input: its raw traces (already-normalized event
// streams per spec.md §1 — ingestion from raw telemetry is out of scope)
// plus that job's configuration.
type Job struct {
	Name   string
	Traces []map[string]*eventmodel.TraceEvent
	Config runconfig.JobConfig
}

// Run executes the full pipeline for one job: sequence every trace (§4.A),
// accumulate them into an EventGraph, infer logic gates per event on
// demand (§4.B, invoked lazily by loopgraph and walker via logic.Discover),
// detect and collapse loops (§4.C), and walk the result into a PUMLGraph
// (§4.D). log may be nil, in which case nothing is logged.
//
// No partial graph is ever returned alongside a non-nil error, matching
// §7's propagation policy.
func Run(job Job, log *obslog.Logger) (*pumlgraph.Graph, error) {
	if log == nil {
		log = obslog.Discard()
	}
	log = log.WithJob(job.Name)

	traces := tracehash.Dedup(job.Traces)
	log.Debug("deduplicated traces", "before", len(job.Traces), "after", len(traces))

	nameMap := nameMapFromConfig(job.Config)

	sequenced := make([]eventmodel.SequencedTrace, 0, len(traces))
	for i, trace := range traces {
		trace = eventmodel.ApplyNameMap(trace, nameMap)
		prevIDs, err := eventmodel.SequenceJob(trace, job.Config.AsyncFlag, job.Config.GroupOf)
		if err != nil {
			return nil, fmt.Errorf("tel2puml: job %q: sequencing trace %d: %w", job.Name, i, err)
		}
		sequenced = append(sequenced, eventmodel.SequencedTrace{Events: trace, PreviousEventIDs: prevIDs})
	}
	log.Debug("sequenced traces", "count", len(sequenced))

	graph, err := eventmodel.BuildGraphFromTraces(sequenced)
	if err != nil {
		return nil, fmt.Errorf("tel2puml: job %q: building event graph: %w", job.Name, err)
	}
	log.Debug("built event graph", "events", graph.Len())

	graph, err = loopgraph.DetectLoops(graph)
	if err != nil {
		return nil, fmt.Errorf("tel2puml: job %q: detecting loops: %w", job.Name, err)
	}
	log.Debug("loop detection complete", "events_remaining", graph.Len())

	graph.PruneUnreachable()

	puml, err := walker.Walk(graph, job.Name)
	if err != nil {
		return nil, fmt.Errorf("tel2puml: job %q: walking graph: %w", job.Name, err)
	}
	log.Debug("walk complete", "elements", len(puml.Elements))

	return puml, nil
}

// nameMapFromConfig converts a job's decoded event_name_map_information into
// the eventmodel.NameMap ApplyNameMap consumes.
func nameMapFromConfig(cfg runconfig.JobConfig) eventmodel.NameMap {
	if len(cfg.EventNameMapInformation) == 0 {
		return nil
	}
	nameMap := make(eventmodel.NameMap, len(cfg.EventNameMapInformation))
	for eventType, entry := range cfg.EventNameMapInformation {
		nameMap[eventType] = eventmodel.NameMapEntry{
			MappedEventType: entry.MappedEventType,
			ChildEventTypes: entry.ChildEventTypes,
		}
	}
	return nameMap
}

// RunAll runs every job in jobs against its own configuration, matching
// §5's "may parallelise across job-names" guidance by keeping each job's
// graph fully independent; this entry point itself runs them sequentially
// and leaves any fan-out to the caller.
func RunAll(jobs []Job, log *obslog.Logger) (map[string]*pumlgraph.Graph, error) {
	out := make(map[string]*pumlgraph.Graph, len(jobs))
	for _, job := range jobs {
		g, err := Run(job, log)
		if err != nil {
			return nil, err
		}
		out[job.Name] = g
	}
	return out, nil
}
