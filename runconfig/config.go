// Package runconfig decodes the per-run configuration document of spec.md
// §6: for each job name, the async-sibling grouping and event-name
// rewriting rules that eventmodel's trace sequencing step consumes.
//
// Grounded on fumiya-kume-cca/pkg/config's Loader (YAML via gopkg.in/yaml.v3,
// read-then-unmarshal-then-validate shape), trimmed to what this core
// actually needs: there is no on-disk search path or save-back here, since
// config loading/file I/O is explicitly out of the core's scope (spec.md
// §1) and belongs to the enclosing CLI.
package runconfig

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EventNameMapEntry rewrites occurrences of an event type during sequencing
// (§6 event_name_map_information).
type EventNameMapEntry struct {
	MappedEventType string   `yaml:"mapped_event_type"`
	ChildEventTypes []string `yaml:"child_event_types"`
}

// JobConfig is the §6 per-job-name configuration document.
type JobConfig struct {
	// AsyncEventGroups maps a parent event type to a map of child event
	// type -> group id; children sharing a group id are concurrent
	// siblings for sequencing purposes (§4.A).
	AsyncEventGroups map[string]map[string]string `yaml:"async_event_groups"`
	// EventNameMapInformation rewrites event types during sequencing.
	EventNameMapInformation map[string]EventNameMapEntry `yaml:"event_name_map_information"`
	// AsyncFlag, when true, defaults the whole job to async sibling
	// semantics absent an explicit group assignment.
	AsyncFlag bool `yaml:"async_flag"`
}

// Document is the top-level configuration document: one JobConfig per job
// name.
type Document map[string]JobConfig

// Load decodes a Document from r.
func Load(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("runconfig: read: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("runconfig: parse: %w", err)
	}
	return doc, nil
}

// JobConfig returns the configuration for jobName, or the zero value
// (no async groups, no rewriting, synchronous) if jobName is absent from
// the document.
func (d Document) JobConfig(jobName string) JobConfig {
	return d[jobName]
}

// GroupOf returns the async group id for childType under parentType's
// async_event_groups entry, and whether one was configured.
func (c JobConfig) GroupOf(parentType, childType string) (string, bool) {
	groups, ok := c.AsyncEventGroups[parentType]
	if !ok {
		return "", false
	}
	gid, ok := groups[childType]
	return gid, ok
}
