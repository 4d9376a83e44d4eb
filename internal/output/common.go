// internal/output/common.go
package output

// Output format names shared by CLI validation and writers.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatNewick = "newick"
)

// AssignmentsTSVHeader is the canonical header row for text/TSV output.
// Keep this as the single source of truth; all writers should use it.
const AssignmentsTSVHeader = "contig_id\tcluster_id"

// KmerReportTSVHeader heads the selected k-mer report.
const KmerReportTSVHeader = "kmer\tcount"
