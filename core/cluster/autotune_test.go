package cluster

import "testing"

func TestMaxCurvature(t *testing.T) {
	// sharp bend at index 3
	curve := []float64{0, 0.01, 0.02, 0.03, 1.0, 2.0, 3.0}
	if got := MaxCurvature(curve); got != 3 {
		t.Fatalf("elbow at %d, want 3", got)
	}
	if got := MaxCurvature([]float64{5, 5, 5, 5}); got != 3 {
		t.Fatalf("flat curve should resolve to last index, got %d", got)
	}
	if got := MaxCurvature([]float64{1, 2}); got != 1 {
		t.Fatalf("short curve should resolve to last index, got %d", got)
	}
	if got := MaxCurvature(nil); got != 0 {
		t.Fatalf("empty curve should resolve to 0, got %d", got)
	}
}

func TestMaxPerpendicular(t *testing.T) {
	// hockey stick: flat then steep; knee at the corner
	curve := []float64{0, 0, 0, 0, 0, 5, 10}
	got := MaxPerpendicular(curve)
	if got != 4 {
		t.Fatalf("knee at %d, want 4", got)
	}
}

func TestDetectOnSeparableMatrix(t *testing.T) {
	p := AutoTuner{}.Detect(separableMatrix())
	if p.UsedFallback {
		t.Fatal("unexpected fallback")
	}
	if p.MinPoints < 1 || p.MinPoints > 8 {
		t.Fatalf("min-points out of range: %d", p.MinPoints)
	}
	if p.Eps <= 0 {
		t.Fatalf("eps must be positive, got %f", p.Eps)
	}
	// auto params must not merge the obviously separated clusters
	got := Run(separableMatrix(), p.Eps, p.MinPoints)
	if got[0].Cluster == got[4].Cluster && got[0].Class != Noise && got[4].Class != Noise {
		t.Fatalf("auto params merged separated clusters: %+v (params %+v)", got, p)
	}
}
