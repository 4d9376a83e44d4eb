// core/kmer/select.go
package kmer

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts/sortutil"
)

// Selection policies. Exactly one applies per run.
const (
	SelectTop    = "top"    // quantile-filtered, most frequent first
	SelectRandom = "random" // uniform without replacement
)

// QuantileFilter returns the codes whose count lies within the inclusive
// [Q1, Q3] band of the count distribution. Very rare k-mers are noise and
// very frequent ones are repeats; neither separates records.
func QuantileFilter(counts map[uint64]uint64) []uint64 {
	if len(counts) == 0 {
		return nil
	}
	dist := make([]uint64, 0, len(counts))
	for _, n := range counts {
		dist = append(dist, n)
	}
	sortutil.Uint64s(dist)
	q1 := dist[int(float64(len(dist))*0.25)]
	q3 := dist[int(float64(len(dist))*0.75)]

	kept := make([]uint64, 0, len(counts))
	for code, n := range counts {
		if n >= q1 && n <= q3 {
			kept = append(kept, code)
		}
	}
	return kept
}

// TopFrequent selects up to n codes from the quantile-filtered band,
// ordered by descending count. Ties break on the smaller code so the
// selection is independent of map iteration order.
func TopFrequent(counts map[uint64]uint64, n int) ([]uint64, error) {
	kept := QuantileFilter(counts)
	if len(kept) == 0 {
		return nil, errors.New("no k-mer candidates after quantile filtering")
	}
	sortutil.Uint64s(kept)
	sort.SliceStable(kept, func(i, j int) bool {
		return counts[kept[i]] > counts[kept[j]]
	})
	if n < len(kept) {
		kept = kept[:n]
	}
	return kept, nil
}

// Random selects up to n distinct codes uniformly without replacement,
// from the quantile band when fromQuantile is set, otherwise from the
// full distinct-k-mer universe. Candidates are radix-sorted before the
// shuffle so results depend only on rng state.
func Random(counts map[uint64]uint64, n int, fromQuantile bool, rng *rand.Rand) ([]uint64, error) {
	var candidates []uint64
	if fromQuantile {
		candidates = QuantileFilter(counts)
	} else {
		candidates = make([]uint64, 0, len(counts))
		for code := range counts {
			candidates = append(candidates, code)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no k-mer candidates to sample from")
	}
	sortutil.Uint64s(candidates)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates, nil
}

// Select dispatches on policy.
func Select(policy string, counts map[uint64]uint64, n int, fromQuantile bool, rng *rand.Rand) ([]uint64, error) {
	switch policy {
	case SelectTop:
		return TopFrequent(counts, n)
	case SelectRandom:
		return Random(counts, n, fromQuantile, rng)
	default:
		return nil, errors.Errorf("unknown selection policy %q", policy)
	}
}
