// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Record is one parsed FASTA sequence. The ID is the header text before the
// first whitespace.
type Record struct {
	ID  string
	Seq []byte
}

// StreamCtx opens path ("-" = stdin, gzip detected by magic number or .gz
// suffix), scans FASTA, and emits whole records. Cancellation via ctx is
// honored between lines. emit may return a non-nil error to stop early.
func StreamCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		id  string
		seq = make([]byte, 0, 1<<20)
	)

	flush := func() error {
		if id == "" {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if id != "" {
				if err := flush(); err != nil {
					return err
				}
				seq = seq[:0]
			}
			id = parseHeaderID(line[1:])
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// Stream is the channel wrapper around StreamCtx. Open errors for non-stdin
// paths are reported immediately; scan-time errors close the channel early.
func Stream(ctx context.Context, path string) (<-chan Record, error) {
	if path != "-" {
		rc, err := openReader(path)
		if err != nil {
			return nil, err
		}
		_ = rc.Close()
	}
	out := make(chan Record, 8)
	go func() {
		defer close(out)
		_ = StreamCtx(ctx, path, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, nil
}

// LoadAll materializes every record from the given paths, in order. An
// empty result is an error: downstream passes need at least one record.
func LoadAll(ctx context.Context, paths []string) ([]Record, error) {
	var records []Record
	for _, p := range paths {
		if err := StreamCtx(ctx, p, func(r Record) error {
			records = append(records, r)
			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
	}
	if len(records) == 0 {
		return nil, errors.New("no records found in input")
	}
	return records, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
