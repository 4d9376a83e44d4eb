// internal/output/assignments.go
package output

import (
	"fmt"
	"io"
	"strconv"

	"kalnal-core/cluster"

	"kalnal/internal/jsonutil"
	"kalnal/pkg/api"
)

// Row pairs a contig identifier with its cluster assignment.
type Row struct {
	ContigID   string
	Assignment cluster.Assignment
}

// ClusterLabel renders the cluster column: the numeric id for core/edge
// members, "noise" otherwise.
func ClusterLabel(a cluster.Assignment) string {
	if a.Class == cluster.Noise {
		return "noise"
	}
	return strconv.Itoa(a.Cluster)
}

// ToAPIAssignment converts a domain row to the stable wire schema (v1).
func ToAPIAssignment(r Row) api.AssignmentV1 {
	return api.AssignmentV1{
		ContigID:  r.ContigID,
		ClusterID: ClusterLabel(r.Assignment),
		Class:     r.Assignment.Class.String(),
	}
}

// WriteAssignmentsText prints one TSV line per contig.
func WriteAssignmentsText(w io.Writer, rows []Row, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, AssignmentsTSVHeader); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.ContigID, ClusterLabel(r.Assignment)); err != nil {
			return err
		}
	}
	return nil
}

// WriteAssignmentsJSON writes a single JSON array of v1 assignments.
func WriteAssignmentsJSON(w io.Writer, rows []Row) error {
	list := make([]api.AssignmentV1, 0, len(rows))
	for _, r := range rows {
		list = append(list, ToAPIAssignment(r))
	}
	return jsonutil.EncodePretty(w, list)
}
