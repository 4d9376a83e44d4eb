// core/bootstrap/bootstrap.go
package bootstrap

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"kalnal-core/tree"
)

// FeatureTree is one selected k-mer's independently built tree together
// with its non-trivial bipartitions.
type FeatureTree struct {
	Code    uint64
	Bracket string
	Bips    []tree.Bipartition
}

// Support runs replicates bootstrap rounds over the per-feature bipartition
// pool. Each replicate draws len(trees) trees with replacement, unions the
// drawn trees' bipartitions, and credits every member of the union exactly
// once, however many drawn trees contained it. Replicates run in parallel;
// replicate r draws from a rand source seeded seed+r so results do not
// depend on the thread count.
func Support(trees []FeatureTree, replicates int, seed int64, threads int) (map[string]int, error) {
	if len(trees) == 0 {
		return nil, errors.New("no feature trees to bootstrap")
	}
	if replicates < 1 {
		return nil, errors.Errorf("replicate count must be positive, got %d", replicates)
	}
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > replicates {
		threads = replicates
	}

	counts := make(map[string]int)
	var mu sync.Mutex

	jobs := make(chan int, threads*2)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for r := range jobs {
				rng := rand.New(rand.NewSource(seed + int64(r)))
				seen := make(map[string]struct{})
				for i := 0; i < len(trees); i++ {
					t := trees[rng.Intn(len(trees))]
					for _, b := range t.Bips {
						seen[b.Key()] = struct{}{}
					}
				}
				mu.Lock()
				for key := range seen {
					counts[key]++
				}
				mu.Unlock()
			}
		}()
	}
	for r := 0; r < replicates; r++ {
		jobs <- r
	}
	close(jobs)
	wg.Wait()
	return counts, nil
}

// Consensus annotates the designated consensus tree (by convention the
// first selected feature's tree) with percentage support from counts.
func Consensus(trees []FeatureTree, counts map[string]int, replicates int) (string, error) {
	if len(trees) == 0 {
		return "", errors.New("no feature trees")
	}
	return tree.Annotate(trees[0].Bracket, counts, replicates)
}
