// internal/cli/options.go
package cli

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

// Selection policies (mirrors kalnal-core/kmer).
const (
	SelectTop    = "top"
	SelectRandom = "random"
)

// Options holds all CLI flags for the cluster command.
type Options struct {
	// Input
	SeqFiles []string

	// Feature extraction
	K                  int
	NKmers             int
	Select             string
	RandomFromQuantile bool
	PositionCap        int
	Bins               []int // nil = default log-scale edges

	// Distance / clustering
	Metric    string
	Eps       float64 // -1 = auto-detect
	MinPoints int     // 0 = auto-detect

	// Performance
	Threads int
	Seed    int64

	// Output
	Output      string
	Sort        bool
	Header      bool // true unless --no-header
	ReportKmers string

	ConfigFile string
	Quiet      bool
	Version    bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: cluster contigs by the spatial distribution of shared k-mers

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
	fs.StringVar(&opt.Select, "select", SelectTop, "feature selection: top | random ["+SelectTop+"]")
	fs.BoolVar(&opt.RandomFromQuantile, "random-from-quantile", false, "restrict random selection to the interquartile count band [false]")
	fs.IntVar(&opt.PositionCap, "position-cap", 0, "max positions stored per k-mer (0 = unlimited) [0]")
	var bins string
	fs.StringVar(&bins, "bins", "", "comma-separated gap bin edges (default: powers of 4)")

	fs.StringVar(&opt.Metric, "metric", "cosine", "distance metric: euclidean | cosine | jaccard [cosine]")
	fs.Float64Var(&opt.Eps, "eps", -1, "DBSCAN neighborhood radius (-1 = auto-detect) [-1]")
	fs.IntVar(&opt.MinPoints, "min-points", 0, "DBSCAN core-point threshold (0 = auto-detect) [0]")

	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.Int64Var(&opt.Seed, "seed", 1, "random seed for sampling [1]")

	fs.StringVar(&opt.Output, "output", output.FormatText, "output format: text | json ["+output.FormatText+"]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV [false]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort output rows by contig id [false]")
	fs.StringVar(&opt.ReportKmers, "report-kmers", "", "write the selected k-mers with counts to FILE (TSV)")

	fs.StringVar(&opt.ConfigFile, "config", "", "TOML file with run defaults (explicit flags win)")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress progress messages on stderr [false]")

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
	opt.Header = !noHeader

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
	if opt.Select != SelectTop && opt.Select != SelectRandom {
		return opt, fmt.Errorf("invalid --select %q", opt.Select)
	}
	if opt.Metric != "euclidean" && opt.Metric != "cosine" && opt.Metric != "jaccard" {
		return opt, fmt.Errorf("invalid --metric %q", opt.Metric)
	}
	if opt.Eps < 0 && opt.Eps != -1 {
		return opt, errors.New("--eps must be ≥ 0")
	}
	if opt.MinPoints < 0 {
		return opt, errors.New("--min-points must be ≥ 0")
	}
	if opt.PositionCap < 0 {
		return opt, errors.New("--position-cap must be ≥ 0")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.Output != output.FormatText && opt.Output != output.FormatJSON {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// applyConfig fills options from the TOML file for every flag the user did
// not pass explicitly.
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
	if !set["bins"] && len(cf.Bins) > 0 {
		opt.Bins = append([]int(nil), cf.Bins...)
	}
	return nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
