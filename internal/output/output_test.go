package output

import (
	"bytes"
	"strings"
	"testing"

	"kalnal-core/cluster"
	"kalnal-core/kmer"
)

func TestWriteAssignmentsText(t *testing.T) {
	rows := []Row{
		{ContigID: "c1", Assignment: cluster.Assignment{Class: cluster.Core, Cluster: 0}},
		{ContigID: "c2", Assignment: cluster.Assignment{Class: cluster.Edge, Cluster: 0}},
		{ContigID: "c3", Assignment: cluster.Assignment{Class: cluster.Noise, Cluster: -1}},
	}
	var buf bytes.Buffer
	if err := WriteAssignmentsText(&buf, rows, true); err != nil {
		t.Fatal(err)
	}
	want := AssignmentsTSVHeader + "\nc1\t0\nc2\t0\nc3\tnoise\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteAssignmentsText(&buf, rows, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "contig_id") {
		t.Fatalf("header not suppressed: %q", buf.String())
	}
}

func TestWriteAssignmentsJSON(t *testing.T) {
	rows := []Row{{ContigID: "c1", Assignment: cluster.Assignment{Class: cluster.Core, Cluster: 2}}}
	var buf bytes.Buffer
	if err := WriteAssignmentsJSON(&buf, rows); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"contig_id": "c1"`, `"cluster_id": "2"`, `"class": "core"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("JSON missing %s: %s", want, buf.String())
		}
	}
}

func TestWriteNewick(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNewick(&buf, TreeReport{Consensus: "((A:1,B:1)95:2,C:3)"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "((A:1,B:1)95:2,C:3);\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteKmerReport(t *testing.T) {
	code, _ := kmer.Encode([]byte("AAAT"))
	var buf bytes.Buffer
	err := WriteKmerReport(&buf, 4, []uint64{code}, map[uint64]uint64{code: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "AAAT\t7") {
		t.Fatalf("report missing decoded k-mer: %q", buf.String())
	}
}
