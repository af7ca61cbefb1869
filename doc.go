// Package cluster implements a small unsupervised-clustering toolkit:
// k-medoids partitioning with silhouette-based selection of the cluster
// count, plus k-means, DBSCAN, agglomerative hierarchical clustering,
// Gaussian mixtures with BIC model selection, LOF outlier scoring, and
// feature scaling.
//
// The central routine is [SelectK], which evaluates every candidate
// cluster count in a caller-supplied range with a medoid partitioner and
// returns the count whose partition has the highest mean silhouette
// width:
//
//	cfg := cluster.DefaultKSelectConfig()
//	cfg.KMin, cfg.KMax = 2, 8
//	sel, err := cluster.SelectK(data, cfg)
//	// sel.K is the selected count, sel.Labels the winning partition,
//	// sel.Scores the mean silhouette width of every evaluated k.
//
// Data is passed as [][]float64 with one row per observation; rows must
// share the same dimensionality and are expected to be scaled (see
// [Standardize]). Distance computation is pluggable through the [Metric]
// interface; built-ins cover Euclidean, Manhattan, Chebyshev, cosine and
// Minkowski distances.
//
// All routines are deterministic for a fixed Seed, and candidate counts
// are evaluated concurrently since each (dataset, k) run is independent.
package cluster
