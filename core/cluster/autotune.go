// core/cluster/autotune.go
package cluster

import (
	"math"
	"sort"
)

// FallbackEps is used when no valid k-distances exist.
const FallbackEps = 0.1

// KneeStrategy locates the index of the bend in a curve. The two standard
// approximations below are interchangeable; callers may substitute their
// own without touching the surrounding contract.
type KneeStrategy func(values []float64) int

// MaxCurvature returns the index with the largest discrete second
// derivative over the min-max-normalized curve. Flat curves resolve to the
// last index.
func MaxCurvature(values []float64) int {
	if len(values) < 3 {
		if len(values) == 0 {
			return 0
		}
		return len(values) - 1
	}
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if maxV-minV < 1e-10 {
		return len(values) - 1
	}
	norm := make([]float64, len(values))
	for i, v := range values {
		norm[i] = (v - minV) / (maxV - minV)
	}
	best, bestIdx := 0.0, 0
	for i := 1; i < len(norm)-1; i++ {
		c := math.Abs(norm[i+1] + norm[i-1] - 2*norm[i])
		if c > best {
			best = c
			bestIdx = i
		}
	}
	return bestIdx
}

// MaxPerpendicular returns the index of the point farthest from the
// straight line joining the first and last values of a sorted curve.
func MaxPerpendicular(values []float64) int {
	n := len(values)
	if n < 3 {
		if n == 0 {
			return 0
		}
		return n - 1
	}
	x1, y1 := 0.0, values[0]
	x2, y2 := float64(n-1), values[n-1]
	den := math.Hypot(x2-x1, y2-y1)
	if den < 1e-10 {
		return n - 1
	}
	best, bestIdx := 0.0, 0
	for i := 1; i < n-1; i++ {
		d := math.Abs((y2-y1)*float64(i)-(x2-x1)*values[i]+x2*y1-y2*x1) / den
		if d > best {
			best = d
			bestIdx = i
		}
	}
	return bestIdx
}

// AutoTuner derives eps and min-points from a distance matrix.
type AutoTuner struct {
	Elbow KneeStrategy // over the mean k-NN distance curve; default MaxCurvature
	Knee  KneeStrategy // over the sorted k-distance curve; default MaxPerpendicular
}

// Params is the result of auto-detection.
type Params struct {
	Eps          float64
	MinPoints    int
	ElbowK       int     // 1-indexed elbow of the mean k-NN curve
	KneeDistance float64 // value at the knee of the sorted k-distances
	UsedFallback bool    // true when no valid k-distances existed
}

// Detect runs the k-NN heuristic: the elbow of the mean k-th-nearest-
// neighbor curve gives min-points, and the knee of every record's
// min-points-th neighbor distance (sorted ascending) gives eps.
func (t AutoTuner) Detect(dist [][]float64) Params {
	elbow := t.Elbow
	if elbow == nil {
		elbow = MaxCurvature
	}
	knee := t.Knee
	if knee == nil {
		knee = MaxPerpendicular
	}

	n := len(dist)
	profiles := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				row = append(row, dist[i][j])
			}
		}
		sort.Float64s(row)
		profiles[i] = row
	}

	maxK := n - 1
	if maxK < 1 {
		maxK = 1
	}
	avg := make([]float64, maxK)
	for k := 1; k <= maxK; k++ {
		var sum float64
		for _, p := range profiles {
			if k-1 < len(p) {
				sum += p[k-1]
			}
		}
		avg[k-1] = sum / float64(n)
	}

	minPoints := elbow(avg) + 1

	kForEps := minPoints
	if kForEps > maxK {
		kForEps = maxK
	}
	var kDist []float64
	for _, p := range profiles {
		if kForEps-1 < len(p) {
			kDist = append(kDist, p[kForEps-1])
		}
	}
	sort.Float64s(kDist)

	if len(kDist) == 0 {
		return Params{Eps: FallbackEps, MinPoints: minPoints, ElbowK: minPoints, UsedFallback: true}
	}
	idx := knee(kDist)
	return Params{
		Eps:          kDist[idx],
		MinPoints:    minPoints,
		ElbowK:       minPoints,
		KneeDistance: kDist[idx],
	}
}
