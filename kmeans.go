package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// KMeansConfig controls [KMeans].
type KMeansConfig struct {
	// MaxIterations bounds the Lloyd iteration count. Default: 100.
	MaxIterations int

	// Tolerance stops iteration early once no centroid moves farther
	// than this between rounds. Default: 1e-6.
	Tolerance float64

	// Seed drives the k-means++ initialization.
	Seed int64
}

// DefaultKMeansConfig returns a KMeansConfig with reasonable defaults.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// KMeansResult is the output of [KMeans].
type KMeansResult struct {
	// Labels assigns each point a cluster in [0, k).
	Labels []int

	// Centroids holds the k cluster means.
	Centroids [][]float64

	// Inertia is the total squared Euclidean distance from every point
	// to its centroid.
	Inertia float64

	// Converged reports whether the centroid movement dropped below
	// Tolerance within MaxIterations.
	Converged bool

	// Iterations is the number of Lloyd rounds performed.
	Iterations int
}

// KMeans clusters data into k groups with Lloyd's algorithm, seeded by
// k-means++. Distances are Euclidean; means are only meaningful in that
// geometry, so the metric is not pluggable here.
func KMeans(data [][]float64, k int, cfg KMeansConfig) (*KMeansResult, error) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 1e-6
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("cluster: k must be in [1, %d], got %d", n, k)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	centroids := seedPlusPlus(flat, n, dims, k, rng)

	labels := make([]int, n)
	counts := make([]int, k)
	next := make([]float64, k*dims)

	converged := false
	iters := 0
	for iters < cfg.MaxIterations {
		iters++

		// Assignment step.
		for i := 0; i < n; i++ {
			labels[i] = nearestCentroid(flat[i*dims:(i+1)*dims], centroids, k, dims)
		}

		// Update step: means of the assigned points.
		for i := range next {
			next[i] = 0
		}
		for c := range counts {
			counts[c] = 0
		}
		for i := 0; i < n; i++ {
			c := labels[i]
			floats.Add(next[c*dims:(c+1)*dims], flat[i*dims:(i+1)*dims])
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster at the point farthest from
				// its current centroid.
				far := farthestPoint(flat, n, dims, centroids)
				copy(next[c*dims:(c+1)*dims], flat[far*dims:(far+1)*dims])
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c*dims:(c+1)*dims])
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			d := floats.Distance(centroids[c*dims:(c+1)*dims], next[c*dims:(c+1)*dims], 2)
			if d > shift {
				shift = d
			}
		}
		copy(centroids, next)

		if shift <= cfg.Tolerance {
			converged = true
			break
		}
	}

	// Final assignment against the last centroids.
	var inertia float64
	sq := SquaredEuclidean{}
	for i := 0; i < n; i++ {
		labels[i] = nearestCentroid(flat[i*dims:(i+1)*dims], centroids, k, dims)
		inertia += sq.Distance(flat[i*dims:(i+1)*dims], centroids[labels[i]*dims:(labels[i]+1)*dims])
	}

	out := make([][]float64, k)
	for c := 0; c < k; c++ {
		out[c] = append([]float64(nil), centroids[c*dims:(c+1)*dims]...)
	}

	return &KMeansResult{
		Labels:     labels,
		Centroids:  out,
		Inertia:    inertia,
		Converged:  converged,
		Iterations: iters,
	}, nil
}

// seedPlusPlus implements k-means++ initialization: the first centroid
// is drawn uniformly, each later one with probability proportional to
// the squared distance from the nearest already-chosen centroid.
func seedPlusPlus(flat []float64, n, dims, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, k*dims)
	first := rng.Intn(n)
	copy(centroids, flat[first*dims:(first+1)*dims])

	sq := SquaredEuclidean{}
	nearest := make([]float64, n)
	for i := 0; i < n; i++ {
		nearest[i] = sq.Distance(flat[i*dims:(i+1)*dims], centroids[:dims])
	}

	for c := 1; c < k; c++ {
		total := floats.Sum(nearest)
		var pick int
		if total <= 0 {
			// All remaining points coincide with a centroid.
			pick = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			var acc float64
			for i := 0; i < n; i++ {
				acc += nearest[i]
				if acc >= target {
					pick = i
					break
				}
			}
		}
		copy(centroids[c*dims:(c+1)*dims], flat[pick*dims:(pick+1)*dims])
		for i := 0; i < n; i++ {
			if d := sq.Distance(flat[i*dims:(i+1)*dims], centroids[c*dims:(c+1)*dims]); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centroids
}

func nearestCentroid(point, centroids []float64, k, dims int) int {
	sq := SquaredEuclidean{}
	best, bestDist := 0, math.Inf(1)
	for c := 0; c < k; c++ {
		if d := sq.Distance(point, centroids[c*dims:(c+1)*dims]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// farthestPoint returns the index of the point with the largest distance
// to its nearest centroid.
func farthestPoint(flat []float64, n, dims int, centroids []float64) int {
	sq := SquaredEuclidean{}
	k := len(centroids) / dims
	far, farDist := 0, -1.0
	for i := 0; i < n; i++ {
		nearest := math.Inf(1)
		for c := 0; c < k; c++ {
			if d := sq.Distance(flat[i*dims:(i+1)*dims], centroids[c*dims:(c+1)*dims]); d < nearest {
				nearest = d
			}
		}
		if nearest > farDist {
			far, farDist = i, nearest
		}
	}
	return far
}
