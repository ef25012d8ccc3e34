package capital

import (
	"errors"
	"math"
	"testing"

	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/models"
)

func TestWeightsSumToOne(t *testing.T) {
	c := CapitalStructure{MarketCap: 3100.5, TotalDebt: 742.3}
	wE, wD, err := c.Weights()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(wE+wD-1.0) > 1e-12 {
		t.Errorf("weights should sum to 1, got %v", wE+wD)
	}
}

func TestWeightsZeroCapitalBase(t *testing.T) {
	c := CapitalStructure{MarketCap: 0, TotalDebt: 0}
	_, _, err := c.Weights()
	if err == nil {
		t.Fatal("expected error for zero capital base, got nil")
	}
	var invalid *models.InputValidationError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InputValidationError, got %T", err)
	}
}

func TestWACCFormula(t *testing.T) {
	// wE=0.8, kE=0.10, wD=0.2, kD=0.06, t=0.25
	// 0.8*0.10 + 0.2*0.06*0.75 = 0.08 + 0.009 = 0.089
	got := WACC(0.8, 0.10, 0.2, 0.06, 0.25)
	if math.Abs(got-0.089) > 1e-12 {
		t.Errorf("expected 0.089, got %v", got)
	}
}

func TestCostOfDebtUnknownRatingFatal(t *testing.T) {
	_, err := CostOfDebt(0.045, "NR", spread.Default())
	if err == nil {
		t.Fatal("expected error for unknown rating, got nil")
	}
}

func TestEstimateWACCBandOrdering(t *testing.T) {
	in := WACCInput{
		Structure: CapitalStructure{MarketCap: 800, TotalDebt: 200},
		Model: MarketModelResult{
			Beta:      1.1,
			BetaLower: 0.8,
			BetaUpper: 1.4,
		},
		RiskFreeRate:      0.045,
		EquityRiskPremium: 0.05,
		MarginalTaxRate:   0.25,
		CreditRating:      "Aaa/AAA",
		Spreads:           spread.Default(),
	}

	est, err := EstimateWACC(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(est.Lower <= est.Point && est.Point <= est.Upper) {
		t.Errorf("band ordering violated: %+v", est)
	}

	// Substitution check at the point estimate.
	kE := CostOfEquity(1.1, 0.045, 0.05)
	kD := 0.045 + 0.0045
	want := WACC(0.8, kE, 0.2, kD, 0.25)
	if math.Abs(est.Point-want) > 1e-12 {
		t.Errorf("expected point WACC %v, got %v", want, est.Point)
	}
}

func TestEstimateWACCMonotonicInBeta(t *testing.T) {
	base := WACCInput{
		Structure:         CapitalStructure{MarketCap: 700, TotalDebt: 300},
		RiskFreeRate:      0.04,
		EquityRiskPremium: 0.055,
		MarginalTaxRate:   0.21,
		CreditRating:      "A2/A",
		Spreads:           spread.Default(),
	}

	var prev float64
	for i, beta := range []float64{0.5, 1.0, 1.5, 2.0} {
		base.Model = MarketModelResult{Beta: beta, BetaLower: beta, BetaUpper: beta}
		est, err := EstimateWACC(base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if i > 0 && est.Point <= prev {
			t.Errorf("WACC should increase with beta: %v then %v", prev, est.Point)
		}
		prev = est.Point
	}
}
