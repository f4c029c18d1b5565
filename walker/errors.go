package walker

import (
	"fmt"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// errMergeSearchExhausted wraps the shared sentinel with the walker's own
// detection context (§7 taxonomy item 3, "merge-resolution exhaustion").
var errMergeSearchExhausted = fmt.Errorf("walker: reachability search exceeded %d nodes: %w", maxMergeIterations, eventmodel.ErrMergeExhausted)
