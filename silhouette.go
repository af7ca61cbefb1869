package cluster

// Silhouettes computes the silhouette width of every point of a
// partition. dist is a flat n×n distance matrix and labels assigns each
// point a cluster in [0, k). For point p with intra-cluster mean
// distance a(p) and nearest-other-cluster mean distance b(p), the width
// is (b-a)/max(a,b), in [-1, 1]. Points in singleton clusters score 0,
// as does a partition with a single cluster.
func Silhouettes(dist []float64, n int, labels []int, k int) []float64 {
	scores := make([]float64, n)
	if k < 2 {
		return scores
	}

	counts := make([]int, k)
	for _, c := range labels {
		counts[c]++
	}

	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		own := labels[i]
		if counts[own] == 1 {
			continue
		}

		for c := range sums {
			sums[c] = 0
		}
		row := dist[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += row[j]
			}
		}

		a := sums[own] / float64(counts[own]-1)
		b := -1.0
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); b < 0 || m < b {
				b = m
			}
		}
		if b < 0 {
			continue // no other non-empty cluster
		}

		if denom := max(a, b); denom > 0 {
			scores[i] = (b - a) / denom
		}
	}
	return scores
}

// MeanSilhouette returns the mean silhouette width over all points.
func MeanSilhouette(dist []float64, n int, labels []int, k int) float64 {
	if n == 0 {
		return 0
	}
	var total float64
	for _, s := range Silhouettes(dist, n, labels, k) {
		total += s
	}
	return total / float64(n)
}

// ClusterSilhouettes returns the mean silhouette width of each cluster,
// indexed by cluster label. Empty clusters score 0.
func ClusterSilhouettes(dist []float64, n int, labels []int, k int) []float64 {
	scores := Silhouettes(dist, n, labels, k)
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, c := range labels {
		sums[c] += scores[i]
		counts[c]++
	}
	for c := range sums {
		if counts[c] > 0 {
			sums[c] /= float64(counts[c])
		}
	}
	return sums
}
