package kmer

import (
	"math/rand"
	"testing"
)

func TestCountBadK(t *testing.T) {
	recs := []Record{{ID: "a", Seq: []byte("ACGT")}}
	if _, err := Count(recs, 0, 1); err == nil {
		t.Fatal("expected error for k=0")
	}
	if _, err := Count(recs, 33, 1); err == nil {
		t.Fatal("expected error for k=33")
	}
	if _, err := Count(nil, 4, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestCountCanonicalizesStrands(t *testing.T) {
	// AC and its reverse complement GT are the same canonical 2-mer.
	counts, err := Count([]Record{{ID: "a", Seq: []byte("ACGT")}}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	code, _ := Encode([]byte("AC"))
	if counts[code] != 2 {
		t.Errorf("want AC+GT collapsed to 2, got %d (counts %v)", counts[code], counts)
	}
}

func TestCountOrderIndependent(t *testing.T) {
	recs := []Record{
		{ID: "a", Seq: []byte("ACGTACGTTTGACA")},
		{ID: "b", Seq: []byte("GGGGCCCATTTACG")},
		{ID: "c", Seq: []byte("TTACGGATCCGGAA")},
		{ID: "d", Seq: []byte("CGCGCGATATATGC")},
	}
	want, err := Count(recs, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]Record(nil), recs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := Count(shuffled, 4, 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("distinct count changed: %d vs %d", len(got), len(want))
		}
		for code, n := range want {
			if got[code] != n {
				t.Fatalf("count for %d changed: %d vs %d", code, got[code], n)
			}
		}
	}
}
