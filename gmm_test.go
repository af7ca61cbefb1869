package cluster

import (
	"math"
	"testing"
)

func TestFitGMM_RecoversTwoComponents(t *testing.T) {
	data := makeBlobs([][]float64{{0}, {10}}, 30, 0.5, 31)

	model, err := FitGMM(data, 2, DefaultGMMConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !model.Converged {
		t.Error("expected EM convergence on separated components")
	}

	// One mean near 0 and one near 10, in some order.
	m0, m1 := model.Means[0][0], model.Means[1][0]
	if m0 > m1 {
		m0, m1 = m1, m0
	}
	if math.Abs(m0) > 0.5 || math.Abs(m1-10) > 0.5 {
		t.Errorf("means: got %v and %v, want near 0 and 10", m0, m1)
	}

	for c, w := range model.Weights {
		if math.Abs(w-0.5) > 0.15 {
			t.Errorf("weight[%d] = %v, want near 0.5", c, w)
		}
	}

	// Hard assignments must respect the midpoint: data[0] comes from the
	// 0-centered component.
	leftLabel := model.Labels[0]
	for i, row := range data {
		if (row[0] < 5) != (model.Labels[i] == leftLabel) {
			t.Errorf("point %d (x=%v) assigned across the midpoint", i, row[0])
		}
	}
}

func TestGMM_BICFiniteAndSizeAware(t *testing.T) {
	data := makeBlobs([][]float64{{0, 0}, {6, 6}}, 20, 0.5, 37)
	model, err := FitGMM(data, 2, DefaultGMMConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bic := model.BIC()
	if math.IsNaN(bic) || math.IsInf(bic, 0) {
		t.Errorf("BIC: got %v, want finite", bic)
	}
}

func TestSelectGMM_PicksTwoComponents(t *testing.T) {
	data := makeBlobs([][]float64{{0, 0}, {8, 8}}, 40, 0.6, 41)

	sel, err := SelectGMM(data, 1, 4, DefaultGMMConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.K != 2 {
		t.Errorf("K: got %d (BICs %v), want 2", sel.K, sel.BICs)
	}
	if len(sel.BICs) != 4 {
		t.Errorf("expected 4 evaluated candidates, got %d", len(sel.BICs))
	}
	for _, cs := range sel.BICs {
		if cs.K == sel.K {
			continue
		}
		if cs.Score < sel.Model.BIC() {
			t.Errorf("k=%d has lower BIC than the selected model", cs.K)
		}
	}
}

func TestFitGMM_InvalidK(t *testing.T) {
	data := [][]float64{{0}, {1}}
	if _, err := FitGMM(data, 0, DefaultGMMConfig()); err == nil {
		t.Error("expected error for k=0")
	}
	if _, err := FitGMM(data, 3, DefaultGMMConfig()); err == nil {
		t.Error("expected error for k > n")
	}
}

func TestSelectGMM_Validation(t *testing.T) {
	data := makeBlobs([][]float64{{0}}, 10, 0.5, 43)
	if _, err := SelectGMM(data, 3, 2, DefaultGMMConfig()); err == nil {
		t.Error("expected error for kMin > kMax")
	}
	if _, err := SelectGMM([][]float64{{1}}, 1, 1, DefaultGMMConfig()); err == nil {
		t.Error("expected error for a single-point dataset")
	}
}
