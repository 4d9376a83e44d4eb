// core/kmer/count.go
package kmer

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Record is one input contig: an identifier plus its raw sequence bytes.
type Record struct {
	ID  string
	Seq []byte
}

// Count tallies canonical k-mer occurrences across all records in a single
// pass. Records are partitioned over worker goroutines, each accumulating a
// private table; partials are merged by summation, so the final counts do
// not depend on scheduling order.
func Count(records []Record, k, threads int) (map[uint64]uint64, error) {
	if k < 1 || k > MaxK {
		return nil, errors.Errorf("k must be between 1 and %d when packing into uint64, got %d", MaxK, k)
	}
	if len(records) == 0 {
		return nil, errors.New("no records to count")
	}
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > len(records) {
		threads = len(records)
	}

	jobs := make(chan int, threads*2)
	partials := make([]map[uint64]uint64, threads)

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func(w int) {
			defer wg.Done()
			counts := make(map[uint64]uint64)
			for i := range jobs {
				Scan(records[i].Seq, k, func(_ int, code uint64) {
					counts[code]++
				})
			}
			partials[w] = counts
		}(w)
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	merged := partials[0]
	for _, p := range partials[1:] {
		for code, n := range p {
			merged[code] += n
		}
	}
	return merged, nil
}
