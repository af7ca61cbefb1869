package cluster

import (
	"fmt"
	"math"
	"sort"
)

// LinkageMethod selects how inter-cluster distance is measured during
// agglomeration.
type LinkageMethod string

const (
	// LinkageSingle merges on the minimum pairwise distance between
	// clusters. Computed via a minimum spanning tree, which yields the
	// same dendrogram as naive agglomeration in O(n²).
	LinkageSingle LinkageMethod = "single"

	// LinkageComplete merges on the maximum pairwise distance.
	LinkageComplete LinkageMethod = "complete"

	// LinkageAverage merges on the size-weighted mean pairwise distance
	// (UPGMA).
	LinkageAverage LinkageMethod = "average"
)

// Linkage builds an agglomerative dendrogram over data. Each of the n-1
// rows is [left, right, distance, mergedSize]: the two cluster IDs
// merged, the linkage distance between them, and the size of the result.
// Original points are IDs 0..n-1 and each merge claims the next ID, the
// same scheme scipy's linkage output uses.
func Linkage(data [][]float64, method LinkageMethod, metric Metric) ([][4]float64, error) {
	if metric == nil {
		metric = Euclidean{}
	}
	switch method {
	case LinkageSingle, LinkageComplete, LinkageAverage:
	case "":
		method = LinkageSingle
	default:
		return nil, fmt.Errorf("cluster: invalid linkage method %q", method)
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, nil
	}

	dist, err := DistanceMatrix(flat, n, dims, metric)
	if err != nil {
		return nil, err
	}

	if method == LinkageSingle {
		return singleLinkage(dist, n), nil
	}
	return lanceWilliamsLinkage(dist, n, method), nil
}

// singleLinkage converts the MST of the distance graph into a
// dendrogram: processing MST edges in weight order merges exactly the
// cluster pairs single linkage would.
func singleLinkage(dist []float64, n int) [][4]float64 {
	edges := primMST(dist, n)
	sort.Slice(edges, func(i, j int) bool {
		return edges[i][2] < edges[j][2]
	})

	uf := newUnionFind(n)
	rows := make([][4]float64, 0, len(edges))
	for _, e := range edges {
		a := uf.find(int(e[0]))
		b := uf.find(int(e[1]))
		_, size := uf.merge(a, b)
		rows = append(rows, [4]float64{float64(a), float64(b), e[2], float64(size)})
	}
	return rows
}

// primMST computes a minimum spanning tree of the dense distance matrix.
// Returns n-1 edges as [from, to, weight].
func primMST(dist []float64, n int) [][3]float64 {
	inTree := make([]bool, n)
	nearest := make([]float64, n)
	source := make([]int, n)
	for i := 1; i < n; i++ {
		nearest[i] = dist[i]
	}
	inTree[0] = true
	nearest[0] = math.Inf(1)

	edges := make([][3]float64, 0, n-1)
	for step := 0; step < n-1; step++ {
		next, nextDist := -1, math.Inf(1)
		for j := 0; j < n; j++ {
			if !inTree[j] && nearest[j] < nextDist {
				next, nextDist = j, nearest[j]
			}
		}
		edges = append(edges, [3]float64{float64(source[next]), float64(next), nextDist})
		inTree[next] = true

		for j := 0; j < n; j++ {
			if !inTree[j] {
				if d := dist[next*n+j]; d < nearest[j] {
					nearest[j] = d
					source[j] = next
				}
			}
		}
	}
	return edges
}

// lanceWilliamsLinkage performs naive O(n³) agglomeration with the
// Lance-Williams update for complete and average linkage, merging the
// closest active pair until one cluster remains.
func lanceWilliamsLinkage(dist []float64, n int, method LinkageMethod) [][4]float64 {
	// Working copies: inter-cluster distances between active clusters,
	// their dendrogram IDs and sizes.
	work := append([]float64(nil), dist...)
	ids := make([]int, n)
	sizes := make([]float64, n)
	for i := range ids {
		ids[i] = i
		sizes[i] = 1
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}

	rows := make([][4]float64, 0, n-1)
	nextID := n
	for step := 0; step < n-1; step++ {
		p, q, best := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && work[i*n+j] < best {
					p, q, best = i, j, work[i*n+j]
				}
			}
		}

		merged := sizes[p] + sizes[q]
		rows = append(rows, [4]float64{float64(ids[p]), float64(ids[q]), best, merged})

		// Fold q into p's slot with the Lance-Williams update.
		for o := 0; o < n; o++ {
			if !active[o] || o == p || o == q {
				continue
			}
			dp, dq := work[p*n+o], work[q*n+o]
			var d float64
			if method == LinkageComplete {
				d = math.Max(dp, dq)
			} else {
				d = (sizes[p]*dp + sizes[q]*dq) / merged
			}
			work[p*n+o] = d
			work[o*n+p] = d
		}
		ids[p] = nextID
		nextID++
		sizes[p] = merged
		active[q] = false
	}
	return rows
}

// CutDendrogram extracts k flat clusters from a dendrogram over n
// points by replaying all but the last k-1 merges. Labels are compacted
// to [0, k) in order of first appearance.
func CutDendrogram(dendrogram [][4]float64, n, k int) ([]int, error) {
	if len(dendrogram) != n-1 {
		return nil, fmt.Errorf("cluster: dendrogram has %d rows, want n-1 = %d", len(dendrogram), n-1)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("cluster: k must be in [1, %d], got %d", n, k)
	}

	uf := newUnionFind(n)
	for _, row := range dendrogram[:n-k] {
		uf.merge(uf.find(int(row[0])), uf.find(int(row[1])))
	}

	labels := make([]int, n)
	compact := make(map[int]int, k)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		c, ok := compact[root]
		if !ok {
			c = len(compact)
			compact[root] = c
		}
		labels[i] = c
	}
	return labels, nil
}
