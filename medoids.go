package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// Seeding selects how initial medoids are chosen.
type Seeding string

const (
	// SeedFarthestFirst starts from the dataset's 1-medoid (the point
	// with the lowest total distance to all others) and repeatedly adds
	// the point farthest from its nearest already-chosen medoid.
	// Deterministic regardless of seed.
	SeedFarthestFirst Seeding = "farthest_first"

	// SeedRandom draws k distinct points uniformly using the configured
	// seed.
	SeedRandom Seeding = "random"
)

// KMedoidsConfig controls the k-medoids partitioner.
// Start with [DefaultKMedoidsConfig] and override the fields you need.
type KMedoidsConfig struct {
	// Metric is the distance function. Default: Euclidean.
	Metric Metric

	// Seeding is the medoid initialization strategy.
	// Default: SeedFarthestFirst.
	Seeding Seeding

	// Seed drives SeedRandom initialization. Runs with the same seed and
	// inputs produce identical partitions.
	Seed int64

	// MaxIterations bounds the assign/re-medoid loop. If the loop does
	// not reach a fixpoint within the bound, the final partition is
	// returned with Converged=false. Default: 100.
	MaxIterations int

	// Workers controls the parallel distance-matrix build.
	// 0 means runtime.NumCPU().
	Workers int
}

// DefaultKMedoidsConfig returns a KMedoidsConfig with reasonable defaults.
func DefaultKMedoidsConfig() KMedoidsConfig {
	return KMedoidsConfig{
		Metric:        Euclidean{},
		Seeding:       SeedFarthestFirst,
		MaxIterations: 100,
	}
}

// KMedoidsResult is the output of a single k-medoids run.
type KMedoidsResult struct {
	// Labels assigns each point a cluster in [0, k).
	Labels []int

	// Medoids holds the index of each cluster's medoid; Medoids[c] is
	// the medoid of cluster c.
	Medoids []int

	// Cost is the total distance from every point to its medoid.
	Cost float64

	// Converged reports whether assignments reached a fixpoint within
	// MaxIterations. When false the partition is still usable; it is
	// the state at the final iteration.
	Converged bool

	// Iterations is the number of assign/re-medoid rounds performed.
	Iterations int
}

// KMedoids partitions data into k clusters around medoids using Voronoi
// iteration: assign every point to its nearest medoid, recompute each
// medoid as the member minimizing total in-cluster dissimilarity, and
// repeat until assignments stabilize or MaxIterations is reached.
func KMedoids(data [][]float64, k int, cfg KMedoidsConfig) (*KMedoidsResult, error) {
	applyKMedoidsDefaults(&cfg)
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("cluster: MaxIterations must be >= 1, got %d", cfg.MaxIterations)
	}
	if cfg.Seeding != SeedFarthestFirst && cfg.Seeding != SeedRandom {
		return nil, fmt.Errorf("cluster: invalid Seeding %q", cfg.Seeding)
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("cluster: k must be in [1, %d], got %d", n, k)
	}

	dist, err := DistanceMatrixParallel(flat, n, dims, cfg.Metric, cfg.Workers)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	res := partitionMedoids(dist, n, k, cfg.Seeding, rng, cfg.MaxIterations)
	return &res, nil
}

func applyKMedoidsDefaults(cfg *KMedoidsConfig) {
	if cfg.Metric == nil {
		cfg.Metric = Euclidean{}
	}
	if cfg.Seeding == "" {
		cfg.Seeding = SeedFarthestFirst
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
}

// partitionMedoids runs the Voronoi-iteration loop on a precomputed
// distance matrix. It never fails: degenerate metrics are rejected when
// the matrix is built.
func partitionMedoids(dist []float64, n, k int, seeding Seeding, rng *rand.Rand, maxIter int) KMedoidsResult {
	medoids := seedMedoids(dist, n, k, seeding, rng)
	labels := assignToMedoids(dist, n, medoids)

	converged := false
	iters := 0
	for iters < maxIter {
		iters++
		updateMedoids(dist, n, medoids, labels)
		next := assignToMedoids(dist, n, medoids)
		same := true
		for i := range next {
			if next[i] != labels[i] {
				same = false
				break
			}
		}
		labels = next
		if same {
			// Medoid recomputation is a pure function of the labels, so
			// identical assignments are a fixpoint.
			converged = true
			break
		}
	}

	var cost float64
	for i, c := range labels {
		cost += dist[i*n+medoids[c]]
	}

	return KMedoidsResult{
		Labels:     labels,
		Medoids:    medoids,
		Cost:       cost,
		Converged:  converged,
		Iterations: iters,
	}
}

// seedMedoids picks k initial medoid indices.
func seedMedoids(dist []float64, n, k int, seeding Seeding, rng *rand.Rand) []int {
	if seeding == SeedRandom {
		return rng.Perm(n)[:k]
	}

	// Farthest-first: seed with the 1-medoid, then grow greedily.
	medoids := make([]int, 0, k)
	best, bestTotal := 0, math.Inf(1)
	for i := 0; i < n; i++ {
		var total float64
		for j := 0; j < n; j++ {
			total += dist[i*n+j]
		}
		if total < bestTotal {
			best, bestTotal = i, total
		}
	}
	medoids = append(medoids, best)

	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = dist[i*n+best]
	}
	for len(medoids) < k {
		far, farDist := -1, -1.0
		for i := 0; i < n; i++ {
			if nearest[i] > farDist {
				far, farDist = i, nearest[i]
			}
		}
		medoids = append(medoids, far)
		for i := range nearest {
			if d := dist[i*n+far]; d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return medoids
}

// assignToMedoids maps every point to its nearest medoid's cluster slot,
// ties broken toward the lower slot.
func assignToMedoids(dist []float64, n int, medoids []int) []int {
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		row := dist[i*n : (i+1)*n]
		best, bestDist := 0, row[medoids[0]]
		for c := 1; c < len(medoids); c++ {
			if d := row[medoids[c]]; d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
	}
	return labels
}

// updateMedoids recomputes each cluster's medoid as the member with the
// lowest total distance to its co-members, ties broken toward the lower
// point index. A cluster left empty by the previous assignment is
// re-seeded with the point farthest from its nearest current medoid.
func updateMedoids(dist []float64, n int, medoids, labels []int) {
	k := len(medoids)
	members := make([][]int, k)
	for i, c := range labels {
		members[c] = append(members[c], i)
	}

	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			medoids[c] = reseedMedoid(dist, n, medoids)
			continue
		}
		best, bestTotal := members[c][0], math.Inf(1)
		for _, i := range members[c] {
			var total float64
			for _, j := range members[c] {
				total += dist[i*n+j]
			}
			if total < bestTotal {
				best, bestTotal = i, total
			}
		}
		medoids[c] = best
	}
}

// reseedMedoid picks the non-medoid point farthest from its nearest
// current medoid.
func reseedMedoid(dist []float64, n int, medoids []int) int {
	taken := make(map[int]bool, len(medoids))
	for _, m := range medoids {
		taken[m] = true
	}

	far, farDist := -1, -1.0
	for i := 0; i < n; i++ {
		if taken[i] {
			continue
		}
		nearest := math.Inf(1)
		for _, m := range medoids {
			if d := dist[i*n+m]; d < nearest {
				nearest = d
			}
		}
		if nearest > farDist {
			far, farDist = i, nearest
		}
	}
	if far == -1 {
		// Every point is a medoid; keep the slot where it was.
		return medoids[0]
	}
	return far
}
