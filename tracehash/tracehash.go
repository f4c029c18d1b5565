// Package tracehash implements the "Unique-graph deduplicator" external
// collaborator of spec.md §4.E: given all per-root traces for a job,
// compute a stable structural hash of each trace tree (event-type
// concatenated with sorted children-hashes) and retain one representative
// per equivalence class before the core runs.
//
// Adapted from the teacher's pck/event_network/lineage_hashing.go, which
// hashes an event's derivation lineage for pattern-recognition lookups
// (fnv64a, order-independent multiset hashing of contributor signatures so
// commutative fan-in doesn't change the fingerprint). Trace-tree
// structural hashing is the same shape of problem one level up: fold a
// tree bottom-up into a single fingerprint, sorting children's signatures
// first so isomorphic trees collapse to the same hash regardless of
// observed child order.
package tracehash

import (
	"hash"
	"hash/fnv"
	"sort"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// Fingerprint is a trace tree's structural hash: two traces with equal
// Fingerprints are structurally indistinguishable (same event types in the
// same tree shape, irrespective of timestamps, ids, or sibling order).
type Fingerprint uint64

// TraceFingerprint computes trace's structural Fingerprint, rooted at
// root's event id.
func TraceFingerprint(trace map[string]*eventmodel.TraceEvent, rootID string) Fingerprint {
	memo := make(map[string]uint64, len(trace))
	return Fingerprint(hashNode(trace, rootID, memo))
}

func hashNode(trace map[string]*eventmodel.TraceEvent, id string, memo map[string]uint64) uint64 {
	if sig, ok := memo[id]; ok {
		return sig
	}
	ev := trace[id]

	childSigs := make([]uint64, 0, len(ev.ChildEventIDs))
	for _, childID := range ev.ChildEventIDs {
		childSigs = append(childSigs, hashNode(trace, childID, memo))
	}
	sort.Slice(childSigs, func(i, j int) bool { return childSigs[i] < childSigs[j] })

	h := fnv.New64a()
	writeString(h, ev.EventType)
	for _, s := range childSigs {
		writeUint64(h, s)
	}
	sig := h.Sum64()
	memo[id] = sig
	return sig
}

// Dedup retains one representative trace per distinct structural
// Fingerprint, in first-seen order. Each trace's root is its one event with
// no ParentEventID; traces without exactly one such event are dropped
// rather than causing the whole batch to
// fail — shape validation is eventmodel.SequenceJob's job, not this
// collaborator's.
func Dedup(traces []map[string]*eventmodel.TraceEvent) []map[string]*eventmodel.TraceEvent {
	seen := make(map[Fingerprint]struct{}, len(traces))
	out := make([]map[string]*eventmodel.TraceEvent, 0, len(traces))
	for _, trace := range traces {
		root, ok := soleRoot(trace)
		if !ok {
			continue
		}
		fp := TraceFingerprint(trace, root)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, trace)
	}
	return out
}

func soleRoot(trace map[string]*eventmodel.TraceEvent) (string, bool) {
	var root string
	count := 0
	for id, ev := range trace {
		if ev.ParentEventID == "" {
			root = id
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return root, true
}

func writeString(h hash.Hash64, s string) {
	_, _ = h.Write([]byte(s))
	_, _ = h.Write([]byte{0})
}

func writeUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}
