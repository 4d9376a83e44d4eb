// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"kalnal-core/cluster"
	"kalnal-core/distance"
	"kalnal-core/histogram"
	"kalnal/internal/appcore"
	"kalnal/internal/cli"
	"kalnal/internal/output"
	"kalnal/internal/runutil"
	"kalnal/internal/version"
	"kalnal/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("kalnal")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
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

	opts, err := cli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "kalnal version %s\n", version.Version)
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
			_, _ = fmt.Fprintf(stderr, "kalnal: "+format+"\n", args...)
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

	rows := appcore.FeatureMatrix(features, edges, threads)
	dist, err := distance.Matrix(rows, opts.Metric, threads)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	eps, minPoints := opts.Eps, opts.MinPoints
	if eps < 0 || minPoints < 1 {
		params := cluster.AutoTuner{}.Detect(dist)
		if params.UsedFallback {
			logf("warning: no usable k-distances; falling back to eps=%g", params.Eps)
		}
		logf("auto-tuned parameters: min-points=%d eps=%g (knee distance %g)",
			params.MinPoints, params.Eps, params.KneeDistance)
		if eps < 0 {
			eps = params.Eps
		}
		if minPoints < 1 {
			minPoints = params.MinPoints
		}
	}

	assign := cluster.Run(dist, eps, minPoints)
	summarize(logf, assign)

	ch, errc := writers.StartAssignmentWriter(outw, opts.Output, opts.Sort, opts.Header, len(assign))
	for i, a := range assign {
		ch <- output.Row{ContigID: features.IDs[i], Assignment: a}
	}
	close(ch)
	if err := <-errc; err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	if opts.ReportKmers != "" {
		if err := writeKmerReport(opts.ReportKmers, opts.K, features); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		logf("wrote %d selected k-mers to %s", len(features.Selected), opts.ReportKmers)
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

// summarize logs one line per cluster (members ascending by id) and a
// trailing noise line.
func summarize(logf appcore.Logf, assign []cluster.Assignment) {
	members := map[int]int{}
	noise := 0
	for _, a := range assign {
		if a.Class == cluster.Noise {
			noise++
			continue
		}
		members[a.Cluster]++
	}
	ids := make([]int, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		logf("cluster %d: %d contigs", id, members[id])
	}
	logf("noise: %d contigs", noise)
}

func writeKmerReport(path string, k int, f *appcore.Features) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()
	w := bufio.NewWriter(fh)
	if err := output.WriteKmerReport(w, k, f.Selected, f.Counts); err != nil {
		return err
	}
	return w.Flush()
}
