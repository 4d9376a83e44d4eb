// internal/appcore/core.go
package appcore

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"kalnal-core/fasta"
	"kalnal-core/histogram"
	"kalnal-core/kmer"
)

// Options are the feature-extraction parameters shared by the cluster and
// tree commands.
type Options struct {
	SeqFiles           []string
	K                  int
	NKmers             int
	Select             string
	RandomFromQuantile bool
	PositionCap        int
	Threads            int
	Seed               int64
}

// Features is the result of the two-pass extraction: the loaded contigs,
// the global count table, the sampled feature k-mers and their position
// index.
type Features struct {
	IDs      []string
	Records  []kmer.Record
	Counts   map[uint64]uint64
	Selected []uint64
	Index    *kmer.Index
}

// Logf receives progress messages; pass a no-op for quiet runs.
type Logf func(format string, args ...any)

// Extract loads the input contigs and runs the two counting passes:
// first a global canonical k-mer census, then a position index restricted
// to the sampled feature k-mers.
func Extract(ctx context.Context, opt Options, logf Logf) (*Features, error) {
	loaded, err := fasta.LoadAll(ctx, opt.SeqFiles)
	if err != nil {
		return nil, err
	}
	f := &Features{
		IDs:     make([]string, len(loaded)),
		Records: make([]kmer.Record, len(loaded)),
	}
	for i, rec := range loaded {
		f.IDs[i] = rec.ID
		f.Records[i] = kmer.Record{ID: rec.ID, Seq: rec.Seq}
	}
	logf("loaded %d contigs", len(f.Records))

	if f.Counts, err = kmer.Count(f.Records, opt.K, opt.Threads); err != nil {
		return nil, err
	}
	logf("counted %d distinct canonical %d-mers", len(f.Counts), opt.K)

	rng := rand.New(rand.NewSource(opt.Seed))
	if f.Selected, err = kmer.Select(opt.Select, f.Counts, opt.NKmers, opt.RandomFromQuantile, rng); err != nil {
		return nil, err
	}
	logf("selected %d feature k-mers (%s)", len(f.Selected), opt.Select)

	f.Index = kmer.BuildIndex(f.Records, opt.K, f.Selected, opt.PositionCap, opt.Threads)
	logf("indexed positions for %d k-mers", f.Index.Len())
	return f, nil
}

// FeatureMatrix builds one row per contig by concatenating the normalized
// gap histograms of every selected k-mer. Workers fill disjoint column
// blocks, so the shared rows need no locking.
func FeatureMatrix(f *Features, edges []int, threads int) [][]float64 {
	n := len(f.Records)
	bins := histogram.Bins(edges)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, len(f.Selected)*bins)
	}

	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > len(f.Selected) {
		threads = len(f.Selected)
	}
	jobs := make(chan int, threads*2)
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				hist := histogram.Build(f.Selected[j], f.Index, n, edges)
				for rec := 0; rec < n; rec++ {
					copy(rows[rec][j*bins:(j+1)*bins], hist[rec*bins:(rec+1)*bins])
				}
			}
		}()
	}
	for j := range f.Selected {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	return rows
}
