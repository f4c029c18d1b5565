package logic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strSet(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, i := range items {
		out[i] = struct{}{}
	}
	return out
}

func TestWeightedCover_PrefersFewerLargerSubsets(t *testing.T) {
	universe := strSet("B", "C", "D")
	candidates := []map[string]struct{}{
		strSet("B", "C"),
		strSet("C", "D"),
		strSet("B"),
	}

	cover := WeightedCover(candidates, universe)
	require.Len(t, cover, 2)

	covered := map[string]struct{}{}
	for _, s := range cover {
		for k := range s {
			covered[k] = struct{}{}
		}
	}
	require.Equal(t, universe, covered)
}

func TestWeightedCover_NoExactCoverReturnsNil(t *testing.T) {
	universe := strSet("B", "C", "D")
	candidates := []map[string]struct{}{
		strSet("B"),
		strSet("C"),
	}

	require.Nil(t, WeightedCover(candidates, universe))
}

func TestWeightedCover_EmptyCandidatesNoCover(t *testing.T) {
	require.Nil(t, WeightedCover(nil, strSet("B")))
}
