package cluster

import (
	"errors"
	"math/rand"
	"testing"
)

func TestDistanceMatrix_HandComputed(t *testing.T) {
	// Points (0,0), (3,4), (0,8) on a plane.
	flat := []float64{0, 0, 3, 4, 0, 8}
	dist, err := DistanceMatrix(flat, 3, 2, Euclidean{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{
		0, 5, 8,
		5, 0, 5,
		8, 5, 0,
	}
	for i := range want {
		if !almostEqual(dist[i], want[i], floatTol) {
			t.Errorf("dist[%d]: got %v, want %v", i, dist[i], want[i])
		}
	}
}

func TestDistanceMatrix_SymmetricZeroDiagonal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n, dims := 40, 3
	flat := make([]float64, n*dims)
	for i := range flat {
		flat[i] = rng.NormFloat64()
	}

	dist, err := DistanceMatrix(flat, n, dims, Manhattan{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < n; i++ {
		if dist[i*n+i] != 0 {
			t.Errorf("diagonal [%d] = %v, want 0", i, dist[i*n+i])
		}
		for j := 0; j < n; j++ {
			if dist[i*n+j] != dist[j*n+i] {
				t.Errorf("asymmetry at (%d, %d)", i, j)
			}
		}
	}
}

func TestDistanceMatrixParallel_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n, dims := 57, 4
	flat := make([]float64, n*dims)
	for i := range flat {
		flat[i] = rng.Float64()
	}

	seq, err := DistanceMatrix(flat, n, dims, Euclidean{})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	for _, workers := range []int{2, 3, 8, 64} {
		par, err := DistanceMatrixParallel(flat, n, dims, Euclidean{}, workers)
		if err != nil {
			t.Fatalf("parallel(%d): %v", workers, err)
		}
		for i := range seq {
			if seq[i] != par[i] {
				t.Fatalf("workers=%d: mismatch at %d: %v != %v", workers, i, par[i], seq[i])
			}
		}
	}
}

func TestDistanceMatrix_NegativeMetric(t *testing.T) {
	neg := MetricFunc(func(a, b []float64) float64 { return -1 })
	flat := []float64{0, 1, 2}
	if _, err := DistanceMatrix(flat, 3, 1, neg); !errors.Is(err, ErrDegenerateMetric) {
		t.Errorf("expected ErrDegenerateMetric, got %v", err)
	}
	if _, err := DistanceMatrixParallel(flat, 3, 1, neg, 4); !errors.Is(err, ErrDegenerateMetric) {
		t.Errorf("parallel: expected ErrDegenerateMetric, got %v", err)
	}
}

func TestDistanceMatrix_NaNMetric(t *testing.T) {
	// Cosine distance of a zero vector is NaN.
	flat := []float64{0, 0, 1, 1}
	if _, err := DistanceMatrix(flat, 2, 2, Cosine{}); !errors.Is(err, ErrDegenerateMetric) {
		t.Errorf("expected ErrDegenerateMetric, got %v", err)
	}
}

func TestNearestNeighbors_OrderedByDistance(t *testing.T) {
	// 1D points 0, 10, 1, 4: neighbors of point 0 are 2 (d=1), 3 (d=4), 1 (d=10).
	flat := []float64{0, 10, 1, 4}
	dist, err := DistanceMatrix(flat, 4, 1, Euclidean{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := nearestNeighbors(dist, 4, 0, 3)
	want := []int{2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor %d: got %d, want %d", i, got[i], want[i])
		}
	}

	if got := nearestNeighbors(dist, 4, 0, 10); len(got) != 3 {
		t.Errorf("k should clamp to n-1: got %d neighbors", len(got))
	}
}

func TestFlatten_RaggedRows(t *testing.T) {
	_, _, _, err := flatten([][]float64{{1, 2}, {3}})
	if err == nil {
		t.Error("expected error for ragged rows")
	}
}
