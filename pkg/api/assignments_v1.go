// pkg/api/assignments_v1.go
package api

// AssignmentV1 is the stable JSON schema for one contig's cluster label.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AssignmentV1 struct {
	ContigID  string `json:"contig_id"`
	ClusterID string `json:"cluster_id"` // numeric id, or "noise"
	Class     string `json:"class"`      // core | edge | noise
}

// CladeSupportV1 is one bipartition with its bootstrap support percentage.
type CladeSupportV1 struct {
	Labels  []string `json:"labels"`
	Support int      `json:"support"`
}

// TreeReportV1 is the stable JSON schema for tree mode: the support-
// annotated consensus tree plus the per-clade support table.
type TreeReportV1 struct {
	K          int              `json:"k"`
	Features   int              `json:"features"`
	Replicates int              `json:"replicates"`
	Consensus  string           `json:"consensus"`
	Clades     []CladeSupportV1 `json:"clades,omitempty"`
}
