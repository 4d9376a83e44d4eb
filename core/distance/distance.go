// core/distance/distance.go
package distance

import (
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Supported metrics.
const (
	Euclidean = "euclidean"
	Cosine    = "cosine"
	Jaccard   = "jaccard"
)

// normEps is the threshold below which a vector norm is treated as zero.
const normEps = 1e-9

// Func computes a dissimilarity between two equal-length feature vectors.
type Func func(a, b []float64) float64

// ByName resolves a metric name.
func ByName(name string) (Func, error) {
	switch name {
	case Euclidean:
		return EuclideanDist, nil
	case Cosine:
		return CosineDist, nil
	case Jaccard:
		return JaccardDist, nil
	default:
		return nil, errors.Errorf("unknown metric %q", name)
	}
}

// EuclideanDist is the root of the summed squared differences.
func EuclideanDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineDist is 1 - cos(a,b). A side with near-zero norm carries no
// similarity signal: similarity is forced to 0 (distance 1) rather than
// dividing by zero.
func CosineDist(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	norm := math.Sqrt(na) * math.Sqrt(nb)
	if norm < normEps {
		return 1
	}
	return 1 - dot/norm
}

// JaccardDist works on presence/absence (non-zero = present):
// 1 - |intersection|/|union|. Two empty feature sets show no evidence of
// difference, so their distance is 0.
func JaccardDist(a, b []float64) float64 {
	var inter, union int
	for i := range a {
		pa, pb := a[i] != 0, b[i] != 0
		if pa && pb {
			inter++
		}
		if pa || pb {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return 1 - float64(inter)/float64(union)
}

// Matrix computes the symmetric pairwise distance matrix over the rows of
// features. Only the upper triangle is computed (rows fan out over worker
// goroutines) and mirrored; the diagonal is zero.
func Matrix(features [][]float64, metric string, threads int) ([][]float64, error) {
	dist, err := ByName(metric)
	if err != nil {
		return nil, err
	}
	n := len(features)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	if threads < 1 {
		threads = runtime.NumCPU()
	}

	rows := make(chan int, threads*2)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for i := range rows {
				for j := i + 1; j < n; j++ {
					d := dist(features[i], features[j])
					m[i][j] = d
					m[j][i] = d
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
	return m, nil
}
