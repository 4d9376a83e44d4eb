// internal/output/kmers.go
package output

import (
	"fmt"
	"io"

	"github.com/shenwei356/kmers"
)

// WriteKmerReport prints the selected k-mers as TSV, decoded back to their
// canonical-strand sequence, with their global occurrence counts, in
// selection order.
func WriteKmerReport(w io.Writer, k int, selected []uint64, counts map[uint64]uint64) error {
	if _, err := fmt.Fprintln(w, KmerReportTSVHeader); err != nil {
		return err
	}
	for _, code := range selected {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", kmers.MustDecode(code, k), counts[code]); err != nil {
			return err
		}
	}
	return nil
}
