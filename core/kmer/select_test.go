package kmer

import (
	"math/rand"
	"testing"
)

func TestQuantileFilterBand(t *testing.T) {
	// counts 1..8: Q1 index = 2 -> 3, Q3 index = 6 -> 7; band is [3,7]
	counts := map[uint64]uint64{}
	for i := uint64(1); i <= 8; i++ {
		counts[i] = i
	}
	kept := QuantileFilter(counts)
	if len(kept) != 5 {
		t.Fatalf("kept %d codes, want 5 (%v)", len(kept), kept)
	}
	for _, code := range kept {
		if counts[code] < 3 || counts[code] > 7 {
			t.Errorf("code %d with count %d outside [3,7]", code, counts[code])
		}
	}
}

func TestTopFrequentOrderAndCap(t *testing.T) {
	counts := map[uint64]uint64{}
	for i := uint64(0); i < 20; i++ {
		counts[i] = 10 + i%5
	}
	sel, err := TopFrequent(counts, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 6 {
		t.Fatalf("selected %d, want 6", len(sel))
	}
	for i := 1; i < len(sel); i++ {
		if counts[sel[i]] > counts[sel[i-1]] {
			t.Fatalf("not in descending count order: %v", sel)
		}
	}
	// n larger than the candidate pool is capped, not an error
	all, err := TopFrequent(counts, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) > len(counts) {
		t.Fatalf("selected more than available: %d", len(all))
	}
}

func TestTopFrequentDeterministic(t *testing.T) {
	counts := map[uint64]uint64{5: 3, 9: 3, 1: 3, 7: 3}
	a, _ := TopFrequent(counts, 4)
	b, _ := TopFrequent(counts, 4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tie-break not deterministic: %v vs %v", a, b)
		}
	}
}

func TestRandomWithoutReplacement(t *testing.T) {
	counts := map[uint64]uint64{}
	for i := uint64(0); i < 50; i++ {
		counts[i] = 1 + i
	}
	sel, err := Random(counts, 20, false, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 20 {
		t.Fatalf("selected %d, want 20", len(sel))
	}
	seen := map[uint64]struct{}{}
	for _, code := range sel {
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %d", code)
		}
		seen[code] = struct{}{}
	}
}

func TestSelectErrors(t *testing.T) {
	if _, err := Select("nope", map[uint64]uint64{1: 1}, 1, false, nil); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	if _, err := TopFrequent(map[uint64]uint64{}, 5); err == nil {
		t.Fatal("expected error for empty universe")
	}
	if _, err := Random(map[uint64]uint64{}, 5, false, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for empty universe")
	}
}
