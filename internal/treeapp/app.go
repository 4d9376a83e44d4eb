// internal/treeapp/app.go
package treeapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	"kalnal-core/bootstrap"
	"kalnal-core/distance"
	"kalnal-core/histogram"
	"kalnal-core/tree"
	"kalnal/internal/appcore"
	"kalnal/internal/output"
	"kalnal/internal/progress"
	"kalnal/internal/runutil"
	"kalnal/internal/treecli"
	"kalnal/internal/version"
	"kalnal/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := treecli.NewFlagSet("kalnal-tree")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = treecli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := treecli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "kalnal-tree version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	edges := histogram.DefaultEdges
	if len(opts.Bins) > 0 {
		edges = opts.Bins
	}
	if err := histogram.ValidateEdges(edges); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	logf := func(format string, args ...any) {
		if !opts.Quiet {
			_, _ = fmt.Fprintf(stderr, "kalnal-tree: "+format+"\n", args...)
		}
	}

	threads := runutil.EffectiveThreads(opts.Threads)
	features, err := appcore.Extract(parent, appcore.Options{
		SeqFiles:           opts.SeqFiles,
		K:                  opts.K,
		NKmers:             opts.NKmers,
		Select:             opts.Select,
		RandomFromQuantile: opts.RandomFromQuantile,
		PositionCap:        opts.PositionCap,
		Threads:            threads,
		Seed:               opts.Seed,
	}, logf)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if len(features.Records) < 2 {
		_, _ = fmt.Fprintln(stderr, "tree inference needs at least 2 contigs")
		return 2
	}

	var bar *progress.Bar
	if !opts.Quiet {
		bar = progress.New(stderr, "trees", len(features.Selected))
	}
	trees, err := buildFeatureTrees(features, edges, opts.Metric, threads, bar)
	bar.Wait()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	replicates := runutil.EffectiveReplicates(opts.Bootstrap, len(features.Selected))
	counts, err := bootstrap.Support(trees, replicates, opts.Seed, threads)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	consensus, err := bootstrap.Consensus(trees, counts, replicates)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	logf("ran %d bootstrap replicates over %d feature trees", replicates, len(trees))

	report := output.TreeReport{
		K:          opts.K,
		Features:   len(trees),
		Replicates: replicates,
		Consensus:  consensus,
		Support:    counts,
	}
	switch opts.Output {
	case output.FormatNewick:
		err = output.WriteNewick(outw, report)
	case output.FormatJSON:
		err = output.WriteTreeJSON(outw, report)
	}
	if err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// buildFeatureTrees grows one UPGMA tree per selected k-mer from that
// k-mer's gap histograms alone. Features are independent, so they fan out
// over a worker pool; the first error wins.
func buildFeatureTrees(f *appcore.Features, edges []int, metric string, threads int, bar *progress.Bar) ([]bootstrap.FeatureTree, error) {
	n := len(f.Records)
	bins := histogram.Bins(edges)
	trees := make([]bootstrap.FeatureTree, len(f.Selected))

	if threads > len(f.Selected) {
		threads = len(f.Selected)
	}
	jobs := make(chan int, threads*2)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				code := f.Selected[j]
				hist := histogram.Build(code, f.Index, n, edges)
				rows := make([][]float64, n)
				for rec := 0; rec < n; rec++ {
					rows[rec] = hist[rec*bins : (rec+1)*bins]
				}
				dist, err := distance.Matrix(rows, metric, 1)
				if err != nil {
					fail(err)
					bar.Increment()
					continue
				}
				root, err := tree.Build(dist, f.IDs)
				if err != nil {
					fail(err)
					bar.Increment()
					continue
				}
				bracket := root.Bracket()
				bips, err := tree.Bipartitions(bracket)
				if err != nil {
					fail(err)
					bar.Increment()
					continue
				}
				trees[j] = bootstrap.FeatureTree{Code: code, Bracket: bracket, Bips: bips}
				bar.Increment()
			}
		}()
	}
	for j := range f.Selected {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	return trees, firstErr
}
