package cluster

import (
	"fmt"
	"math"
)

// LOF computes the local outlier factor of every point using k nearest
// neighbors: the ratio of a point's local reachability density to the
// mean density of its neighbors. Scores near 1 indicate inliers; scores
// well above 1 indicate points in regions sparser than their
// neighborhood. k is clamped to n-1.
func LOF(data [][]float64, k int, metric Metric) ([]float64, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster: k must be >= 1, got %d", k)
	}
	if metric == nil {
		metric = Euclidean{}
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return make([]float64, n), nil
	}
	k = min(k, n-1)

	dist, err := DistanceMatrix(flat, n, dims, metric)
	if err != nil {
		return nil, err
	}

	neighbors := make([][]int, n)
	kDist := make([]float64, n)
	for i := 0; i < n; i++ {
		neighbors[i] = nearestNeighbors(dist, n, i, k)
		kDist[i] = dist[i*n+neighbors[i][k-1]]
	}

	// Local reachability density: inverse mean reachability distance to
	// the neighborhood. A neighborhood of exact duplicates has zero mean
	// reachability distance and +Inf density.
	lrd := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for _, j := range neighbors[i] {
			sum += math.Max(kDist[j], dist[i*n+j])
		}
		if sum == 0 {
			lrd[i] = math.Inf(1)
		} else {
			lrd[i] = float64(k) / sum
		}
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for _, j := range neighbors[i] {
			if math.IsInf(lrd[i], 1) {
				// Duplicate point: as dense as its neighbors.
				sum += 1
			} else {
				sum += lrd[j] / lrd[i]
			}
		}
		scores[i] = sum / float64(k)
	}
	return scores, nil
}
