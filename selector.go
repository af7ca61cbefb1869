package cluster

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyDataset is returned when the dataset has fewer than 2 points.
	ErrEmptyDataset = errors.New("cluster: dataset must contain at least 2 points")

	// ErrInvalidRange is returned when the candidate range [KMin, KMax]
	// is malformed or does not fit the dataset.
	ErrInvalidRange = errors.New("cluster: invalid candidate range")
)

// KSelectConfig controls [SelectK].
// Start with [DefaultKSelectConfig] and override the fields you need.
type KSelectConfig struct {
	// KMin and KMax bound the candidate cluster counts, inclusive.
	// Requires 2 <= KMin <= KMax <= n-1.
	KMin, KMax int

	// Metric is the distance function. It must be symmetric and
	// non-negative. Default: Euclidean.
	Metric Metric

	// Seeding is the medoid initialization strategy.
	// Default: SeedFarthestFirst.
	Seeding Seeding

	// Seed makes SeedRandom runs reproducible. Each candidate k derives
	// its own generator from Seed and k, so a single-candidate run with
	// KMin == KMax == k reproduces that candidate's score from a
	// multi-candidate run exactly.
	Seed int64

	// MaxIterations bounds each candidate's assign/re-medoid loop.
	// Default: 100.
	MaxIterations int

	// Workers bounds the number of candidates evaluated concurrently
	// and the parallel distance-matrix build. 0 means runtime.NumCPU().
	Workers int
}

// DefaultKSelectConfig returns a KSelectConfig with reasonable defaults.
// KMin and KMax must still be set by the caller.
func DefaultKSelectConfig() KSelectConfig {
	return KSelectConfig{
		Metric:        Euclidean{},
		Seeding:       SeedFarthestFirst,
		MaxIterations: 100,
	}
}

// CandidateScore is the quality score of one evaluated cluster count.
type CandidateScore struct {
	K     int
	Score float64
}

// KSelection is the output of [SelectK].
type KSelection struct {
	// K is the selected cluster count: the candidate with the highest
	// mean silhouette width, ties broken toward the smaller count.
	K int

	// Labels is the winning partition; every point is assigned exactly
	// one cluster in [0, K).
	Labels []int

	// Medoids holds the winning partition's medoid indices, one per
	// cluster.
	Medoids []int

	// Score is the winning partition's mean silhouette width, in [-1, 1].
	Score float64

	// Scores lists the mean silhouette width of every evaluated
	// candidate in ascending k order, for diagnostic display.
	Scores []CandidateScore

	// Converged reports whether the winning candidate's partition loop
	// reached a fixpoint within MaxIterations. When false the partition
	// is best-effort: re-run with a different Seed or a larger bound if
	// it must be trusted.
	Converged bool
}

// SelectK evaluates every candidate cluster count in [KMin, KMax] with
// the k-medoids partitioner and returns the count whose partition has
// the highest mean silhouette width. Candidates are independent and are
// evaluated concurrently. SelectK is a pure function of data and cfg.
func SelectK(data [][]float64, cfg KSelectConfig) (*KSelection, error) {
	applyKSelectDefaults(&cfg)

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if err := validateKSelect(cfg, n); err != nil {
		return nil, err
	}

	dist, err := DistanceMatrixParallel(flat, n, dims, cfg.Metric, cfg.Workers)
	if err != nil {
		return nil, err
	}

	candidates := make([]KMedoidsResult, cfg.KMax-cfg.KMin+1)
	scores := make([]float64, len(candidates))

	// One task per candidate k. Evaluations share only the read-only
	// distance matrix and write to disjoint slots, so no locking is
	// needed; the group caps concurrency at cfg.Workers.
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for k := cfg.KMin; k <= cfg.KMax; k++ {
		k, slot := k, k-cfg.KMin
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(k)))
			res := partitionMedoids(dist, n, k, cfg.Seeding, rng, cfg.MaxIterations)
			candidates[slot] = res
			scores[slot] = MeanSilhouette(dist, n, res.Labels, k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for slot := 1; slot < len(scores); slot++ {
		// Strict comparison keeps ties at the smaller k.
		if scores[slot] > scores[best] {
			best = slot
		}
	}

	all := make([]CandidateScore, len(scores))
	for slot, s := range scores {
		all[slot] = CandidateScore{K: cfg.KMin + slot, Score: s}
	}

	win := candidates[best]
	return &KSelection{
		K:         cfg.KMin + best,
		Labels:    win.Labels,
		Medoids:   win.Medoids,
		Score:     scores[best],
		Scores:    all,
		Converged: win.Converged,
	}, nil
}

func applyKSelectDefaults(cfg *KSelectConfig) {
	if cfg.Metric == nil {
		cfg.Metric = Euclidean{}
	}
	if cfg.Seeding == "" {
		cfg.Seeding = SeedFarthestFirst
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

func validateKSelect(cfg KSelectConfig, n int) error {
	if n < 2 {
		return fmt.Errorf("%w: got %d", ErrEmptyDataset, n)
	}
	if cfg.KMin < 2 {
		return fmt.Errorf("%w: KMin must be >= 2, got %d", ErrInvalidRange, cfg.KMin)
	}
	if cfg.KMin > cfg.KMax {
		return fmt.Errorf("%w: KMin %d > KMax %d", ErrInvalidRange, cfg.KMin, cfg.KMax)
	}
	if cfg.KMax > n-1 {
		return fmt.Errorf("%w: KMax %d exceeds n-1 = %d", ErrInvalidRange, cfg.KMax, n-1)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("cluster: MaxIterations must be >= 1, got %d", cfg.MaxIterations)
	}
	if cfg.Seeding != SeedFarthestFirst && cfg.Seeding != SeedRandom {
		return fmt.Errorf("cluster: invalid Seeding %q", cfg.Seeding)
	}
	return nil
}
