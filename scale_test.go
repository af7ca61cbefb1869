package cluster

import "testing"

func TestStandardize_HandComputed(t *testing.T) {
	data := [][]float64{{1, 10}, {2, 20}, {3, 30}}
	scaled, means, stds := Standardize(data)

	if !almostEqual(means[0], 2, floatTol) || !almostEqual(means[1], 20, floatTol) {
		t.Errorf("means: got %v", means)
	}
	// Sample standard deviation of {1,2,3} is 1, of {10,20,30} is 10.
	if !almostEqual(stds[0], 1, floatTol) || !almostEqual(stds[1], 10, floatTol) {
		t.Errorf("stds: got %v", stds)
	}

	want := [][]float64{{-1, -1}, {0, 0}, {1, 1}}
	for i := range want {
		for j := range want[i] {
			if !almostEqual(scaled[i][j], want[i][j], floatTol) {
				t.Errorf("scaled[%d][%d]: got %v, want %v", i, j, scaled[i][j], want[i][j])
			}
		}
	}
}

func TestStandardize_ConstantFeature(t *testing.T) {
	data := [][]float64{{5, 1}, {5, 2}, {5, 3}}
	scaled, _, stds := Standardize(data)
	if stds[0] != 0 {
		t.Errorf("constant feature std: got %v, want 0", stds[0])
	}
	for i := range scaled {
		if scaled[i][0] != 0 {
			t.Errorf("constant feature should center to 0, got %v", scaled[i][0])
		}
	}
}

func TestStandardize_DoesNotModifyInput(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}
	Standardize(data)
	if data[0][0] != 1 || data[1][1] != 4 {
		t.Error("input was modified")
	}
}

func TestMinMaxScale_HandComputed(t *testing.T) {
	data := [][]float64{{1}, {2}, {3}}
	scaled := MinMaxScale(data)
	want := []float64{0, 0.5, 1}
	for i := range want {
		if !almostEqual(scaled[i][0], want[i], floatTol) {
			t.Errorf("scaled[%d]: got %v, want %v", i, scaled[i][0], want[i])
		}
	}
}

func TestMinMaxScale_ConstantFeature(t *testing.T) {
	data := [][]float64{{7}, {7}}
	scaled := MinMaxScale(data)
	for i := range scaled {
		if scaled[i][0] != 0 {
			t.Errorf("constant feature should map to 0, got %v", scaled[i][0])
		}
	}
}

func TestStandardize_Empty(t *testing.T) {
	scaled, means, stds := Standardize(nil)
	if scaled != nil || means != nil || stds != nil {
		t.Error("expected nil results for empty input")
	}
}
