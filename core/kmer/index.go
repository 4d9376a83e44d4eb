// core/kmer/index.go
package kmer

import (
	"runtime"
	"sync"
)

// Pos is one occurrence of a selected k-mer.
type Pos struct {
	Record int // index into the record slice
	Offset int // 0-based window start within the record
}

// Index holds occurrence positions for the selected k-mers only.
// A per-key cap bounds memory for pathologically repetitive k-mers:
// once a key reaches the cap it is marked saturated and every later
// occurrence is skipped on the cheap membership test, never re-compared
// against the cap. Saturation is sticky for the rest of the run.
type Index struct {
	positions map[uint64][]Pos
	saturated map[uint64]struct{}
	cap       int
}

// Positions returns the recorded occurrences for code in first-seen order.
func (x *Index) Positions(code uint64) []Pos { return x.positions[code] }

// Saturated reports whether code hit the per-key cap during indexing.
func (x *Index) Saturated(code uint64) bool {
	_, ok := x.saturated[code]
	return ok
}

// Len returns the number of indexed keys.
func (x *Index) Len() int { return len(x.positions) }

func (x *Index) add(code uint64, p Pos) {
	if _, ok := x.saturated[code]; ok {
		return
	}
	x.positions[code] = append(x.positions[code], p)
	if x.cap > 0 && len(x.positions[code]) >= x.cap {
		x.saturated[code] = struct{}{}
	}
}

// BuildIndex is the second full pass: it re-encodes every window and
// records (record, offset) for codes in the selected set. Records scan in
// parallel; per-record partials are merged sequentially in record order,
// so first-seen order (and therefore which positions a cap retains) is
// deterministic. posCap <= 0 disables capping.
func BuildIndex(records []Record, k int, selected []uint64, posCap, threads int) *Index {
	set := make(map[uint64]struct{}, len(selected))
	for _, code := range selected {
		set[code] = struct{}{}
	}

	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > len(records) {
		threads = len(records)
	}

	type hit struct {
		code   uint64
		offset int
	}
	perRecord := make([][]hit, len(records))

	jobs := make(chan int, threads*2)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				var hits []hit
				Scan(records[i].Seq, k, func(pos int, code uint64) {
					if _, ok := set[code]; ok {
						hits = append(hits, hit{code: code, offset: pos})
					}
				})
				perRecord[i] = hits
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	x := &Index{
		positions: make(map[uint64][]Pos, len(selected)),
		saturated: make(map[uint64]struct{}),
		cap:       posCap,
	}
	for i, hits := range perRecord {
		for _, h := range hits {
			x.add(h.code, Pos{Record: i, Offset: h.offset})
		}
	}
	return x
}
