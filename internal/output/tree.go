// internal/output/tree.go
package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"kalnal/internal/jsonutil"
	"kalnal/pkg/api"
)

// TreeReport is the domain-side result of tree mode.
type TreeReport struct {
	K          int
	Features   int
	Replicates int
	Consensus  string         // support-annotated bracket text
	Support    map[string]int // bipartition key -> replicate count
}

// WriteNewick prints the consensus tree as a single newick line.
func WriteNewick(w io.Writer, r TreeReport) error {
	_, err := fmt.Fprintf(w, "%s;\n", r.Consensus)
	return err
}

// WriteTreeJSON writes the v1 tree report. Clades are sorted by descending
// support, then by label set, for stable output.
func WriteTreeJSON(w io.Writer, r TreeReport) error {
	v := api.TreeReportV1{
		K:          r.K,
		Features:   r.Features,
		Replicates: r.Replicates,
		Consensus:  r.Consensus,
	}
	for key, n := range r.Support {
		labels := strings.Split(key, "\x1f")
		support := int(math.Round(100 * float64(n) / float64(r.Replicates)))
		v.Clades = append(v.Clades, api.CladeSupportV1{Labels: labels, Support: support})
	}
	sort.Slice(v.Clades, func(i, j int) bool {
		if v.Clades[i].Support != v.Clades[j].Support {
			return v.Clades[i].Support > v.Clades[j].Support
		}
		return strings.Join(v.Clades[i].Labels, ",") < strings.Join(v.Clades[j].Labels, ",")
	})
	return jsonutil.EncodePretty(w, v)
}
