package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// varianceFloor keeps component variances away from zero so the
// likelihood stays finite when a component collapses onto few points.
const varianceFloor = 1e-6

// GMMConfig controls [FitGMM] and [SelectGMM].
type GMMConfig struct {
	// MaxIterations bounds the EM loop. Default: 200.
	MaxIterations int

	// Tolerance stops EM once the log-likelihood improves by less than
	// this between rounds. Default: 1e-6.
	Tolerance float64

	// Seed drives the k-means initialization of the components.
	Seed int64
}

// DefaultGMMConfig returns a GMMConfig with reasonable defaults.
func DefaultGMMConfig() GMMConfig {
	return GMMConfig{
		MaxIterations: 200,
		Tolerance:     1e-6,
	}
}

// GMM is a fitted diagonal-covariance Gaussian mixture model.
type GMM struct {
	// Weights holds the k mixing proportions, summing to 1.
	Weights []float64

	// Means holds the k component means.
	Means [][]float64

	// Variances holds the k per-dimension component variances.
	Variances [][]float64

	// Labels assigns each training point to its most responsible
	// component.
	Labels []int

	// LogLikelihood is the total log-likelihood of the training data
	// under the fitted model.
	LogLikelihood float64

	// Converged reports whether EM reached Tolerance within
	// MaxIterations.
	Converged bool

	// Iterations is the number of EM rounds performed.
	Iterations int

	n int // training size, for BIC
}

// FitGMM fits a k-component diagonal-covariance Gaussian mixture to
// data with expectation-maximization, initialized from a k-means run.
func FitGMM(data [][]float64, k int, cfg GMMConfig) (*GMM, error) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 200
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 1e-6
	}

	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("cluster: k must be in [1, %d], got %d", n, k)
	}

	km, err := KMeans(data, k, KMeansConfig{
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	weights := make([]float64, k)
	means := make([][]float64, k)
	variances := make([][]float64, k)
	counts := make([]int, k)
	for _, c := range km.Labels {
		counts[c]++
	}
	for c := 0; c < k; c++ {
		weights[c] = float64(counts[c]) / float64(n)
		means[c] = append([]float64(nil), km.Centroids[c]...)
		variances[c] = clusterVariances(flat, n, dims, km.Labels, c, means[c])
	}

	resp := make([]float64, n*k)
	logp := make([]float64, k)
	logL := math.Inf(-1)
	converged := false
	iters := 0

	for iters < cfg.MaxIterations {
		iters++

		// E-step: responsibilities via log-sum-exp.
		var newLogL float64
		for i := 0; i < n; i++ {
			x := flat[i*dims : (i+1)*dims]
			for c := 0; c < k; c++ {
				logp[c] = math.Log(weights[c]) + logNormalDiag(x, means[c], variances[c])
			}
			lse := logSumExp(logp)
			newLogL += lse
			for c := 0; c < k; c++ {
				resp[i*k+c] = math.Exp(logp[c] - lse)
			}
		}

		// M-step: weighted moments.
		for c := 0; c < k; c++ {
			var total float64
			for i := 0; i < n; i++ {
				total += resp[i*k+c]
			}
			weights[c] = total / float64(n)
			if total == 0 {
				// Dead component: no point claims it, leave its moments.
				continue
			}

			for j := 0; j < dims; j++ {
				means[c][j] = 0
			}
			for i := 0; i < n; i++ {
				floats.AddScaled(means[c], resp[i*k+c], flat[i*dims:(i+1)*dims])
			}
			floats.Scale(1/total, means[c])

			for j := 0; j < dims; j++ {
				var v float64
				for i := 0; i < n; i++ {
					d := flat[i*dims+j] - means[c][j]
					v += resp[i*k+c] * d * d
				}
				variances[c][j] = math.Max(v/total, varianceFloor)
			}
		}

		if newLogL-logL < cfg.Tolerance {
			logL = newLogL
			converged = true
			break
		}
		logL = newLogL
	}

	labels := make([]int, n)
	for i := 0; i < n; i++ {
		best, bestResp := 0, resp[i*k]
		for c := 1; c < k; c++ {
			if resp[i*k+c] > bestResp {
				best, bestResp = c, resp[i*k+c]
			}
		}
		labels[i] = best
	}

	return &GMM{
		Weights:       weights,
		Means:         means,
		Variances:     variances,
		Labels:        labels,
		LogLikelihood: logL,
		Converged:     converged,
		Iterations:    iters,
		n:             n,
	}, nil
}

// BIC returns the Bayesian information criterion of the fitted model:
// ln(n)·params − 2·logL. Lower is better. Parameter count covers k-1
// free weights plus k·d means and k·d variances.
func (g *GMM) BIC() float64 {
	k := len(g.Weights)
	d := len(g.Means[0])
	params := float64(k - 1 + 2*k*d)
	return params*math.Log(float64(g.n)) - 2*g.LogLikelihood
}

// GMMSelection is the output of [SelectGMM].
type GMMSelection struct {
	// K is the selected component count: the candidate with the lowest
	// BIC, ties broken toward the smaller count.
	K int

	// Model is the winning fitted mixture.
	Model *GMM

	// BICs lists every evaluated candidate's BIC in ascending k order.
	// Unlike silhouette scores, lower is better.
	BICs []CandidateScore
}

// SelectGMM fits a mixture for every component count in [kMin, kMax]
// and returns the count minimizing BIC. kMin may be 1: a one-component
// fit is the "no cluster structure" baseline.
func SelectGMM(data [][]float64, kMin, kMax int, cfg GMMConfig) (*GMMSelection, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyDataset, len(data))
	}
	if kMin < 1 || kMin > kMax || kMax > len(data) {
		return nil, fmt.Errorf("%w: [%d, %d] over %d points", ErrInvalidRange, kMin, kMax, len(data))
	}

	var best *GMM
	bestK := kMin
	bics := make([]CandidateScore, 0, kMax-kMin+1)
	for k := kMin; k <= kMax; k++ {
		model, err := FitGMM(data, k, cfg)
		if err != nil {
			return nil, err
		}
		bic := model.BIC()
		bics = append(bics, CandidateScore{K: k, Score: bic})
		if best == nil || bic < best.BIC() {
			best = model
			bestK = k
		}
	}

	return &GMMSelection{K: bestK, Model: best, BICs: bics}, nil
}

// clusterVariances computes the per-dimension variance of cluster c's
// members around mean, floored so no dimension collapses.
func clusterVariances(flat []float64, n, dims int, labels []int, c int, mean []float64) []float64 {
	v := make([]float64, dims)
	count := 0
	for i := 0; i < n; i++ {
		if labels[i] != c {
			continue
		}
		count++
		for j := 0; j < dims; j++ {
			d := flat[i*dims+j] - mean[j]
			v[j] += d * d
		}
	}
	for j := range v {
		if count > 0 {
			v[j] /= float64(count)
		}
		v[j] = math.Max(v[j], varianceFloor)
	}
	return v
}

// logNormalDiag is the log density of x under an axis-aligned Gaussian.
func logNormalDiag(x, mean, variance []float64) float64 {
	var sum float64
	for j := range x {
		norm := distuv.Normal{Mu: mean[j], Sigma: math.Sqrt(variance[j])}
		sum += norm.LogProb(x[j])
	}
	return sum
}

func logSumExp(v []float64) float64 {
	maxVal := floats.Max(v)
	if math.IsInf(maxVal, -1) {
		return maxVal
	}
	var sum float64
	for _, x := range v {
		sum += math.Exp(x - maxVal)
	}
	return maxVal + math.Log(sum)
}
