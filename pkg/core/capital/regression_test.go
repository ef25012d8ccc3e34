package capital

import (
	"errors"
	"math"
	"testing"

	"dcf_suite/pkg/models"
)

func TestFitMarketModelExactLine(t *testing.T) {
	// y = 1 + 2x, noise-free: beta exact, zero standard error, R^2 = 1.
	benchmark := []float64{0, 1, 2, 3}
	target := []float64{1, 3, 5, 7}

	res, err := FitMarketModel(target, benchmark)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Beta-2) > 1e-12 {
		t.Errorf("expected beta 2, got %v", res.Beta)
	}
	if math.Abs(res.Alpha-1) > 1e-12 {
		t.Errorf("expected alpha 1, got %v", res.Alpha)
	}
	if math.Abs(res.RSquared-1) > 1e-12 {
		t.Errorf("expected R^2 1, got %v", res.RSquared)
	}
	if res.StdErr > 1e-9 {
		t.Errorf("expected ~0 std err, got %v", res.StdErr)
	}
	if math.Abs(res.BetaLower-res.Beta) > 1e-6 || math.Abs(res.BetaUpper-res.Beta) > 1e-6 {
		t.Errorf("interval should collapse on noise-free data: [%v, %v]", res.BetaLower, res.BetaUpper)
	}
	if res.Observations != 4 {
		t.Errorf("expected 4 observations, got %d", res.Observations)
	}
}

func TestFitMarketModelIntervalOrdering(t *testing.T) {
	benchmark := []float64{0.01, -0.02, 0.03, 0.015, -0.01, 0.02}
	target := []float64{0.02, -0.05, 0.04, 0.02, -0.03, 0.05}

	res, err := FitMarketModel(target, benchmark)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(res.BetaLower <= res.Beta && res.Beta <= res.BetaUpper) {
		t.Errorf("interval ordering violated: [%v, %v, %v]", res.BetaLower, res.Beta, res.BetaUpper)
	}
	if res.StdErr <= 0 {
		t.Errorf("expected positive standard error on noisy data, got %v", res.StdErr)
	}
	// Symmetric around the point estimate by construction.
	lo := res.Beta - res.BetaLower
	hi := res.BetaUpper - res.Beta
	if math.Abs(lo-hi) > 1e-12 {
		t.Errorf("interval not symmetric: %v vs %v", lo, hi)
	}
}

func TestFitMarketModelInsufficientData(t *testing.T) {
	_, err := FitMarketModel([]float64{0.1, 0.2}, []float64{0.1, 0.2})
	if err == nil {
		t.Fatal("expected error for 2 observations, got nil")
	}
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError, got %T", err)
	}
}

func TestFitMarketModelMismatchedLengths(t *testing.T) {
	_, err := FitMarketModel([]float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2})
	if err == nil {
		t.Fatal("expected error for mismatched lengths, got nil")
	}
	var invalid *models.InputValidationError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InputValidationError, got %T", err)
	}
}

func TestFitMarketModelConstantBenchmark(t *testing.T) {
	_, err := FitMarketModel([]float64{0.1, 0.2, 0.3}, []float64{0.05, 0.05, 0.05})
	if err == nil {
		t.Fatal("expected error for constant benchmark, got nil")
	}
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError, got %T", err)
	}
}
