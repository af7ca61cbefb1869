package cluster

import "math"

// Metric measures the dissimilarity between two points of equal
// dimensionality. Implementations must be symmetric and non-negative;
// the triangle inequality is not required.
type Metric interface {
	Distance(a, b []float64) float64
}

// MetricFunc adapts a plain function into a Metric.
type MetricFunc func(a, b []float64) float64

func (f MetricFunc) Distance(a, b []float64) float64 { return f(a, b) }

// Euclidean computes the Euclidean (L2) distance.
type Euclidean struct{}

func (Euclidean) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SquaredEuclidean computes the squared Euclidean distance. The square
// root is monotone, so nearest-point decisions made on squared distances
// agree with Euclidean ones while skipping the sqrt.
type SquaredEuclidean struct{}

func (SquaredEuclidean) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Manhattan computes the Manhattan (L1 / city-block) distance.
type Manhattan struct{}

func (Manhattan) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Chebyshev computes the Chebyshev (L-infinity) distance.
type Chebyshev struct{}

func (Chebyshev) Distance(a, b []float64) float64 {
	var maxVal float64
	for i := range a {
		if v := math.Abs(a[i] - b[i]); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Cosine computes the cosine distance 1 - cos(a, b).
// For a zero vector the result is NaN, which [DistanceMatrix] rejects.
type Cosine struct{}

func (Cosine) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

// Minkowski computes the Minkowski distance of order P. P must be >= 1.
type Minkowski struct {
	P float64
}

func (m Minkowski) Distance(a, b []float64) float64 {
	if m.P < 1 {
		panic("cluster: Minkowski order P must be >= 1")
	}
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return math.Pow(sum, 1.0/m.P)
}
