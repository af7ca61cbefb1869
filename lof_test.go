package cluster

import "testing"

func TestLOF_FlagsIsolatedPoint(t *testing.T) {
	// A 3x3 unit grid plus one far-away point.
	data := [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
		{10, 10},
	}
	scores, err := LOF(data, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 9; i++ {
		if scores[i] > 1.5 {
			t.Errorf("grid point %d scored %v, want an inlier score near 1", i, scores[i])
		}
	}
	if scores[9] < 2 {
		t.Errorf("isolated point scored %v, want a clear outlier score", scores[9])
	}
}

func TestLOF_UniformDensityScoresNearOne(t *testing.T) {
	// Evenly spaced line: every point sits at its neighborhood's density.
	data := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}}
	scores, err := LOF(data, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range scores {
		if s < 0.5 || s > 1.6 {
			t.Errorf("point %d scored %v, want near 1", i, s)
		}
	}
}

func TestLOF_DuplicatePoints(t *testing.T) {
	data := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	scores, err := LOF(data, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range scores {
		if s != 1 {
			t.Errorf("duplicate point %d scored %v, want 1", i, s)
		}
	}
}

func TestLOF_ClampsK(t *testing.T) {
	data := [][]float64{{0}, {1}, {2}}
	if _, err := LOF(data, 10, nil); err != nil {
		t.Errorf("k beyond n-1 should clamp, got error: %v", err)
	}
}

func TestLOF_InvalidK(t *testing.T) {
	if _, err := LOF([][]float64{{0}, {1}}, 0, nil); err == nil {
		t.Error("expected error for k=0")
	}
}

func TestLOF_TinyDataset(t *testing.T) {
	scores, err := LOF([][]float64{{1}}, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 1 || scores[0] != 0 {
		t.Errorf("single-point dataset: got %v", scores)
	}
}
