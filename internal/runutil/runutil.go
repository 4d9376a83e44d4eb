// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// EffectiveThreads maps the CLI convention (0 = all CPUs) to a worker count.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ParseBins parses a comma-separated bin edge list ("0,4,16,...").
// An empty string means "use the default edges" and returns nil.
func ParseBins(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	edges := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bin edge %q", p)
		}
		edges = append(edges, v)
	}
	return edges, nil
}

// EffectiveReplicates maps the tree-mode convention (0 = same as the
// feature sample size) to a bootstrap replicate count.
func EffectiveReplicates(replicates, nKmers int) int {
	if replicates <= 0 {
		return nKmers
	}
	return replicates
}
