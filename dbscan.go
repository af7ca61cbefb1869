package cluster

import "fmt"

// Noise is the label DBSCAN assigns to points that belong to no cluster.
const Noise = -1

// DBSCAN performs density-based clustering: a point with at least minPts
// neighbors within eps (itself included) is a core point, core points
// within eps of each other share a cluster, and border points join the
// cluster of a reachable core point. Points reachable from no core point
// are labeled [Noise]. Returns the per-point labels and the number of
// clusters found.
//
// Neighborhoods are computed against the full distance matrix, which is
// adequate for the dataset sizes this package targets.
func DBSCAN(data [][]float64, eps float64, minPts int, metric Metric) ([]int, int, error) {
	if eps <= 0 {
		return nil, 0, fmt.Errorf("cluster: eps must be > 0, got %v", eps)
	}
	if minPts < 1 {
		return nil, 0, fmt.Errorf("cluster: minPts must be >= 1, got %d", minPts)
	}
	if metric == nil {
		metric = Euclidean{}
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return []int{}, 0, nil
	}

	dist, err := DistanceMatrix(flat, n, dims, metric)
	if err != nil {
		return nil, 0, err
	}

	const unvisited = -2
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	clusters := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(dist, n, i, eps)
		if len(neighbors) < minPts {
			labels[i] = Noise
			continue
		}

		c := clusters
		clusters++
		labels[i] = c

		// Expand the cluster breadth-first over density-reachable points.
		queue := neighbors
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == Noise {
				labels[j] = c // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = c
			jn := regionQuery(dist, n, j, eps)
			if len(jn) >= minPts {
				queue = append(queue, jn...)
			}
		}
	}

	return labels, clusters, nil
}

// regionQuery returns all points within eps of point i, including i.
func regionQuery(dist []float64, n, i int, eps float64) []int {
	row := dist[i*n : (i+1)*n]
	var neighbors []int
	for j := 0; j < n; j++ {
		if row[j] <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
