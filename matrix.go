package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ErrDegenerateMetric is returned when a Metric produces a negative or
// NaN distance, which would make every downstream quality measure
// meaningless.
var ErrDegenerateMetric = errors.New("cluster: metric produced a negative or NaN distance")

// flatten converts row-per-observation data into a flat row-major array,
// validating that every row has the same dimensionality.
func flatten(data [][]float64) ([]float64, int, int, error) {
	n := len(data)
	if n == 0 {
		return nil, 0, 0, nil
	}
	dims := len(data[0])
	flat := make([]float64, n*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, 0, 0, fmt.Errorf("cluster: row %d has %d features, want %d", i, len(row), dims)
		}
		copy(flat[i*dims:], row)
	}
	return flat, n, dims, nil
}

// DistanceMatrix computes the full n×n matrix of pairwise distances.
// data is flat row-major with n rows and dims columns. The result is a
// flat []float64 of length n×n with a zero diagonal. Returns
// ErrDegenerateMetric if the metric yields a negative or NaN value.
func DistanceMatrix(data []float64, n, dims int, metric Metric) ([]float64, error) {
	result := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
			if d < 0 || math.IsNaN(d) {
				return nil, fmt.Errorf("%w: d(%d, %d) = %v", ErrDegenerateMetric, i, j, d)
			}
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}
	return result, nil
}

// DistanceMatrixParallel computes the same matrix as [DistanceMatrix]
// using workers goroutines. Each worker owns a contiguous range of
// source rows and fills dist(i, j) for all j > i in that range, so
// writes never overlap and no synchronization is needed for the matrix
// itself. Falls back to the sequential build when workers <= 1.
func DistanceMatrixParallel(data []float64, n, dims int, metric Metric, workers int) ([]float64, error) {
	if workers <= 1 || n <= 1 {
		return DistanceMatrix(data, n, dims, metric)
	}

	result := make([]float64, n*n)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
					if d < 0 || math.IsNaN(d) {
						if errs[w] == nil {
							errs[w] = fmt.Errorf("%w: d(%d, %d) = %v", ErrDegenerateMetric, i, j, d)
						}
						return
					}
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(w, startRow, endRow)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// nearestNeighbors returns the indices of the k nearest neighbors of
// point i (excluding i itself) ordered by increasing distance, ties
// broken by index. dist is a flat n×n distance matrix. k is clamped to
// n-1.
func nearestNeighbors(dist []float64, n, i, k int) []int {
	k = min(k, n-1)
	if k <= 0 {
		return nil
	}
	idx := make([]int, 0, n-1)
	for j := 0; j < n; j++ {
		if j != i {
			idx = append(idx, j)
		}
	}
	row := dist[i*n : (i+1)*n]
	sort.SliceStable(idx, func(a, b int) bool {
		return row[idx[a]] < row[idx[b]]
	})
	return idx[:k]
}
