// internal/treecli/options.go
package treecli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"kalnal/internal/config"
	"kalnal/internal/output"
	"kalnal/internal/runutil"
	"kalnal/internal/version"
)

// Options holds all CLI flags for the tree command.
type Options struct {
	SeqFiles []string

	K                  int
	NKmers             int
	Select             string
	RandomFromQuantile bool
	PositionCap        int
	Bins               []int

	Metric    string
	Bootstrap int // 0 = one replicate per sampled k-mer

	Threads int
	Seed    int64

	Output string

	ConfigFile string
	Quiet      bool
	Version    bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: infer a bootstrap-supported contig tree from shared k-mer spacing

License: MIT
Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	var seq stringSlice
	fs.Var(&seq, "sequences", "FASTA file(s) (repeatable or '-') [*]")
	fs.IntVar(&opt.K, "k", 0, "k-mer length, 1-32 [*]")

	fs.IntVar(&opt.NKmers, "n-kmers", 1000, "number of k-mers to sample as features [1000]")
	fs.StringVar(&opt.Select, "select", "top", "feature selection: top | random [top]")
	fs.BoolVar(&opt.RandomFromQuantile, "random-from-quantile", false, "restrict random selection to the interquartile count band [false]")
	fs.IntVar(&opt.PositionCap, "position-cap", 0, "max positions stored per k-mer (0 = unlimited) [0]")
	var bins string
	fs.StringVar(&bins, "bins", "", "comma-separated gap bin edges (default: powers of 4)")

	fs.StringVar(&opt.Metric, "metric", "euclidean", "distance metric: euclidean | cosine | jaccard [euclidean]")
	fs.IntVar(&opt.Bootstrap, "bootstrap", 0, "bootstrap replicates (0 = one per sampled k-mer) [0]")

	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.Int64Var(&opt.Seed, "seed", 1, "random seed for sampling and resampling [1]")

	fs.StringVar(&opt.Output, "output", output.FormatNewick, "output format: newick | json ["+output.FormatNewick+"]")

	fs.StringVar(&opt.ConfigFile, "config", "", "TOML file with run defaults (explicit flags win)")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress the progress bar and stderr messages [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.SeqFiles = seq

	var err error
	if opt.Bins, err = runutil.ParseBins(bins); err != nil {
		return opt, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if opt.ConfigFile != "" {
		if err := applyConfig(&opt, set); err != nil {
			return opt, err
		}
	}

	// Validation
	if len(opt.SeqFiles) == 0 {
		return opt, errors.New("at least one --sequences file is required")
	}
	if opt.K < 1 || opt.K > 32 {
		return opt, errors.New("--k must be between 1 and 32")
	}
	if opt.NKmers < 1 {
		return opt, errors.New("--n-kmers must be ≥ 1")
	}
	if opt.Select != "top" && opt.Select != "random" {
		return opt, fmt.Errorf("invalid --select %q", opt.Select)
	}
	if opt.Metric != "euclidean" && opt.Metric != "cosine" && opt.Metric != "jaccard" {
		return opt, fmt.Errorf("invalid --metric %q", opt.Metric)
	}
	if opt.Bootstrap < 0 {
		return opt, errors.New("--bootstrap must be ≥ 0")
	}
	if opt.PositionCap < 0 {
		return opt, errors.New("--position-cap must be ≥ 0")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.Output != output.FormatNewick && opt.Output != output.FormatJSON {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

func applyConfig(opt *Options, set map[string]bool) error {
	cf, err := config.Load(opt.ConfigFile)
	if err != nil {
		return err
	}
	if !set["metric"] && cf.Metric != "" {
		opt.Metric = cf.Metric
	}
	if !set["select"] && cf.Select != "" {
		opt.Select = cf.Select
	}
	if !set["n-kmers"] && cf.NKmers > 0 {
		opt.NKmers = cf.NKmers
	}
	if !set["position-cap"] && cf.PositionCap > 0 {
		opt.PositionCap = cf.PositionCap
	}
	if !set["bootstrap"] && cf.Bootstrap > 0 {
		opt.Bootstrap = cf.Bootstrap
	}
	if !set["bins"] && len(cf.Bins) > 0 {
		opt.Bins = append([]int(nil), cf.Bins...)
	}
	return nil
}

type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
