// internal/writers/assignments.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"kalnal/internal/output"
)

// StartAssignmentWriter spins up a writer goroutine for assignment rows.
// Rows arrive over the returned channel; the error channel reports the
// single terminal result once the input channel is closed and drained.
func StartAssignmentWriter(out io.Writer, format string, sortRows, header bool, bufSize int) (chan<- output.Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan output.Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var buf []output.Row
		for r := range in {
			buf = append(buf, r)
		}
		if sortRows {
			sort.Slice(buf, func(i, j int) bool { return buf[i].ContigID < buf[j].ContigID })
		}
		var err error
		switch format {
		case output.FormatText:
			err = output.WriteAssignmentsText(out, buf, header)
		case output.FormatJSON:
			err = output.WriteAssignmentsJSON(out, buf)
		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}
