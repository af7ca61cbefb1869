package cluster

import "gonum.org/v1/gonum/stat"

// Standardize rescales every feature to zero mean and unit variance and
// returns the scaled copy along with the per-feature means and standard
// deviations used. Features with zero variance are centered but not
// divided. The input is not modified.
func Standardize(data [][]float64) ([][]float64, []float64, []float64) {
	n := len(data)
	if n == 0 {
		return nil, nil, nil
	}
	dims := len(data[0])

	means := make([]float64, dims)
	stds := make([]float64, dims)
	col := make([]float64, n)
	for j := 0; j < dims; j++ {
		for i := 0; i < n; i++ {
			col[i] = data[i][j]
		}
		means[j] = stat.Mean(col, nil)
		stds[j] = stat.StdDev(col, nil)
	}

	scaled := make([][]float64, n)
	for i := range data {
		row := make([]float64, dims)
		for j := range row {
			row[j] = data[i][j] - means[j]
			if stds[j] > 0 {
				row[j] /= stds[j]
			}
		}
		scaled[i] = row
	}
	return scaled, means, stds
}

// MinMaxScale rescales every feature to [0, 1]. Constant features map
// to 0. The input is not modified.
func MinMaxScale(data [][]float64) [][]float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	dims := len(data[0])

	minVal := make([]float64, dims)
	maxVal := make([]float64, dims)
	copy(minVal, data[0])
	copy(maxVal, data[0])
	for _, row := range data[1:] {
		for j, v := range row {
			if v < minVal[j] {
				minVal[j] = v
			}
			if v > maxVal[j] {
				maxVal[j] = v
			}
		}
	}

	scaled := make([][]float64, n)
	for i := range data {
		row := make([]float64, dims)
		for j := range row {
			if span := maxVal[j] - minVal[j]; span > 0 {
				row[j] = (data[i][j] - minVal[j]) / span
			}
		}
		scaled[i] = row
	}
	return scaled
}
