package appcore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kalnal-core/histogram"
)

func writeFasta(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.fa")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discard(string, ...any) {}

func TestExtract(t *testing.T) {
	path := writeFasta(t, ">c1\nACGTACGTACGT\n>c2\nTTTTACGTTTTT\n")
	opt := Options{
		SeqFiles: []string{path},
		K:        4,
		NKmers:   3,
		Select:   "top",
		Threads:  1,
		Seed:     1,
	}
	f, err := Extract(context.Background(), opt, discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Records) != 2 || f.IDs[0] != "c1" || f.IDs[1] != "c2" {
		t.Fatalf("records loaded %v", f.IDs)
	}
	if len(f.Selected) != 3 {
		t.Fatalf("selected %d features", len(f.Selected))
	}
	if f.Index.Len() == 0 {
		t.Fatal("empty position index")
	}
}

func TestExtractBadInput(t *testing.T) {
	opt := Options{SeqFiles: []string{"/does/not/exist.fa"}, K: 4, NKmers: 1, Select: "top"}
	if _, err := Extract(context.Background(), opt, discard); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestFeatureMatrixShape(t *testing.T) {
	path := writeFasta(t, ">c1\nACGTACGTACGTACGT\n>c2\nACGTACGTACGTACGT\n>c3\nGGGGGGGGGGGGGGGG\n")
	opt := Options{
		SeqFiles: []string{path},
		K:        4,
		NKmers:   2,
		Select:   "top",
		Threads:  2,
		Seed:     1,
	}
	f, err := Extract(context.Background(), opt, discard)
	if err != nil {
		t.Fatal(err)
	}
	rows := FeatureMatrix(f, histogram.DefaultEdges, 2)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	want := len(f.Selected) * histogram.Bins(histogram.DefaultEdges)
	for i, row := range rows {
		if len(row) != want {
			t.Fatalf("row %d has %d columns, want %d", i, len(row), want)
		}
	}
	// Identical contigs must land on identical feature rows.
	for j := range rows[0] {
		if rows[0][j] != rows[1][j] {
			t.Fatalf("identical contigs differ at column %d", j)
		}
	}
}
