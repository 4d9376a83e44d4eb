package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Two groups of identical contigs built from different dinucleotide
// repeats. Their top 4-mers have disjoint support, so the groups sit at
// maximal cosine distance while within-group distances are zero.
func writeTwoGroupFasta(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= 4; i++ {
		b.WriteString(">a")
		b.WriteByte(byte('0' + i))
		b.WriteString("\nACACACACACACACACACAC\n")
	}
	for i := 1; i <= 4; i++ {
		b.WriteString(">b")
		b.WriteByte(byte('0' + i))
		b.WriteString("\nAGAGAGAGAGAGAGAGAGAG\n")
	}
	path := filepath.Join(t.TempDir(), "contigs.fa")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunClustersTwoGroups(t *testing.T) {
	path := writeTwoGroupFasta(t)
	var out, errb bytes.Buffer
	code := Run([]string{
		"--sequences", path, "--k", "4", "--n-kmers", "4",
		"--metric", "cosine", "--threads", "1", "--sort", "--quiet",
	}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errb.String())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "contig_id\tcluster_id" {
		t.Fatalf("header = %q", lines[0])
	}
	rows := lines[1:]
	if len(rows) != 8 {
		t.Fatalf("want 8 rows, got %d:\n%s", len(rows), out.String())
	}
	id := func(row string) string {
		parts := strings.Split(row, "\t")
		if len(parts) != 2 {
			t.Fatalf("malformed row %q", row)
		}
		return parts[1]
	}
	aID, bID := id(rows[0]), id(rows[4])
	if aID == "noise" || bID == "noise" {
		t.Fatalf("dense groups classified as noise:\n%s", out.String())
	}
	if aID == bID {
		t.Fatalf("distinct groups merged:\n%s", out.String())
	}
	for _, r := range rows[:4] {
		if id(r) != aID {
			t.Fatalf("group a split:\n%s", out.String())
		}
	}
	for _, r := range rows[4:] {
		if id(r) != bID {
			t.Fatalf("group b split:\n%s", out.String())
		}
	}
}

func TestRunJSONOutput(t *testing.T) {
	path := writeTwoGroupFasta(t)
	var out, errb bytes.Buffer
	code := Run([]string{
		"--sequences", path, "--k", "4", "--n-kmers", "4",
		"--output", "json", "--threads", "1", "--quiet",
	}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errb.String())
	}
	if !strings.Contains(out.String(), `"contig_id": "a1"`) {
		t.Fatalf("json output missing contig: %s", out.String())
	}
}

func TestRunReportKmers(t *testing.T) {
	path := writeTwoGroupFasta(t)
	report := filepath.Join(t.TempDir(), "kmers.tsv")
	var out, errb bytes.Buffer
	code := Run([]string{
		"--sequences", path, "--k", "4", "--n-kmers", "2",
		"--threads", "1", "--quiet", "--report-kmers", report,
	}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errb.String())
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "kmer\tcount" || len(lines) != 3 {
		t.Fatalf("report:\n%s", data)
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run(nil, &out, &errb); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out.String(), "Usage of kalnal") {
		t.Fatalf("usage not printed: %s", out.String())
	}
}

func TestRunBadFlags(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run([]string{"--k", "99"}, &out, &errb); code != 2 {
		t.Fatalf("exit %d", code)
	}
}

func TestRunVersion(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run([]string{"--version"}, &out, &errb); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out.String(), "kalnal version ") {
		t.Fatalf("version output %q", out.String())
	}
}

func TestRunMissingInput(t *testing.T) {
	var out, errb bytes.Buffer
	code := Run([]string{"--sequences", "/does/not/exist.fa", "--k", "4", "--quiet"}, &out, &errb)
	if code != 2 {
		t.Fatalf("exit %d, stderr: %s", code, errb.String())
	}
}
