package cluster

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// makeBlobs samples perPoint observations around each center with
// isotropic Gaussian noise of the given standard deviation. Points are
// emitted center by center, so the ground-truth cluster of point i is
// i / perCenter.
func makeBlobs(centers [][]float64, perCenter int, sd float64, seed uint64) [][]float64 {
	src := rand.NewSource(seed)
	norm := distuv.Normal{Mu: 0, Sigma: sd, Src: src}

	data := make([][]float64, 0, len(centers)*perCenter)
	for _, c := range centers {
		for k := 0; k < perCenter; k++ {
			row := make([]float64, len(c))
			for j := range row {
				row[j] = c[j] + norm.Rand()
			}
			data = append(data, row)
		}
	}
	return data
}

// makeUniform samples n points uniformly from the unit square.
func makeUniform(n int, seed uint64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([][]float64, n)
	for i := range data {
		data[i] = []float64{rng.Float64(), rng.Float64()}
	}
	return data
}

// fourBlobCenters are well separated corners used across tests.
var fourBlobCenters = [][]float64{{0, 0}, {8, 0}, {0, 8}, {8, 8}}

// sameInts reports whether two label slices are identical.
func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
