// core/histogram/histogram.go
package histogram

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"kalnal-core/kmer"
)

// DefaultEdges are the log-scale gap thresholds (powers of 4). A gap lands
// in the first [edges[i], edges[i+1]) that contains it; the final edge is
// an effectively-infinite sentinel so every gap is classified.
var DefaultEdges = []int{
	0, 4, 16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304,
	16777216, 67108864, 268435456, math.MaxInt,
}

// ValidateEdges checks that an edge list defines at least one bin, rises
// monotonically, and ends in an effectively-infinite sentinel.
func ValidateEdges(edges []int) error {
	if len(edges) < 2 {
		return errors.Errorf("need at least 2 bin edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return errors.Errorf("bin edges must be strictly increasing: edge[%d]=%d <= edge[%d]=%d",
				i, edges[i], i-1, edges[i-1])
		}
	}
	if edges[len(edges)-1] < math.MaxInt32 {
		return errors.Errorf("final bin edge %d is not effectively infinite", edges[len(edges)-1])
	}
	return nil
}

// Build converts the occurrence positions of one selected k-mer into a flat
// per-record distribution of gaps between consecutive occurrences. The
// result has nRecords rows of len(edges)-1 bins; each non-empty row is
// L1-normalized to sum to 1, and records with fewer than two occurrences
// keep an all-zero row.
func Build(code uint64, index *kmer.Index, nRecords int, edges []int) []float64 {
	nBins := len(edges) - 1
	hist := make([]float64, nRecords*nBins)

	byRecord := make(map[int][]int)
	for _, p := range index.Positions(code) {
		byRecord[p.Record] = append(byRecord[p.Record], p.Offset)
	}
	for rec, positions := range byRecord {
		sort.Ints(positions)
		for i := 1; i < len(positions); i++ {
			gap := positions[i] - positions[i-1]
			for b := 0; b < nBins; b++ {
				if gap >= edges[b] && gap < edges[b+1] {
					hist[rec*nBins+b]++
					break
				}
			}
		}
	}

	for rec := 0; rec < nRecords; rec++ {
		row := hist[rec*nBins : (rec+1)*nBins]
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum > 0 {
			for i := range row {
				row[i] /= sum
			}
		}
	}
	return hist
}

// Bins returns the number of bins an edge list defines.
func Bins(edges []int) int { return len(edges) - 1 }
