package valuation

import (
	"errors"
	"math"
	"testing"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/projection"
	"dcf_suite/pkg/models"
)

const tol = 1e-9

func TestTerminalValueRejectsWACCAtOrBelowGrowth(t *testing.T) {
	cases := []struct {
		name string
		wacc float64
	}{
		{"equal", 0.03},
		{"below", 0.02},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TerminalValue(100, tc.wacc, 0.03, 5)
			var derr *models.DomainError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DomainError, got %v", err)
			}
		})
	}
}

func TestTerminalValueGordonGrowth(t *testing.T) {
	res, err := TerminalValue(100, 0.09, 0.03, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 * 1.03 / 0.06
	want := 1716.6666666666667
	if math.Abs(res.TerminalValue-want) > tol {
		t.Errorf("expected TV %v, got %v", want, res.TerminalValue)
	}
	if math.Abs(res.PresentValue-want/1.09) > tol {
		t.Errorf("expected PV %v, got %v", want/1.09, res.PresentValue)
	}
}

func TestDiscountOneIndexedPeriods(t *testing.T) {
	rows := []projection.Row{{FCF: 110}, {FCF: 121}}
	discounted, err := Discount(rows, 0.10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(discounted[0].PresentValue-100) > tol {
		t.Errorf("year 1 PV: expected 100, got %v", discounted[0].PresentValue)
	}
	if math.Abs(discounted[1].PresentValue-100) > tol {
		t.Errorf("year 2 PV: expected 100, got %v", discounted[1].PresentValue)
	}
}

func TestEquityBridgeRejectsNonPositiveShares(t *testing.T) {
	_, err := EquityBridge(1000, BridgeInput{TotalDebt: 100, TotalCash: 50})
	var verr *models.InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InputValidationError, got %v", err)
	}
}

func goldenRows(t *testing.T) []projection.Row {
	t.Helper()
	vector := projection.AssumptionVector{
		Growth:           []float64{0.20, 0.10},
		EBITMargin:       []float64{0.40, 0.40},
		ReinvestmentRate: []float64{0.30, 0.30},
	}
	rows, err := projection.Project(1000, vector, 0.25, nil)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	return rows
}

func TestValueGoldenFixture(t *testing.T) {
	rows := goldenRows(t)

	if math.Abs(rows[0].Revenue-1200) > tol || math.Abs(rows[1].Revenue-1320) > tol {
		t.Fatalf("revenue path wrong: %v, %v", rows[0].Revenue, rows[1].Revenue)
	}
	if math.Abs(rows[1].FCF-277.2) > tol {
		t.Fatalf("final FCF wrong: %v", rows[1].FCF)
	}

	bridge := BridgeInput{TotalDebt: 200, TotalCash: 50, SharesOutstanding: 100}
	outcome, err := Value(rows, 0.10, 0.03, bridge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both years discount to 252/1.1 = 277.2/1.21 = 229.0909...
	wantSum := 252.0/1.1 + 277.2/1.21
	if math.Abs(outcome.SumPVExplicit-wantSum) > tol {
		t.Errorf("sum PV: expected %v, got %v", wantSum, outcome.SumPVExplicit)
	}
	// TV = 277.2*1.03/0.07 = 4078.8
	if math.Abs(outcome.Terminal.TerminalValue-4078.8) > tol {
		t.Errorf("TV: expected 4078.8, got %v", outcome.Terminal.TerminalValue)
	}
	if math.Abs(outcome.Terminal.PresentValue-4078.8/1.21) > tol {
		t.Errorf("PV(TV): expected %v, got %v", 4078.8/1.21, outcome.Terminal.PresentValue)
	}

	wantEV := wantSum + 4078.8/1.21
	if math.Abs(outcome.Result.EnterpriseValue-wantEV) > tol {
		t.Errorf("EV: expected %v, got %v", wantEV, outcome.Result.EnterpriseValue)
	}
	wantEquity := wantEV - 200 + 50
	if math.Abs(outcome.Result.EquityValue-wantEquity) > tol {
		t.Errorf("equity: expected %v, got %v", wantEquity, outcome.Result.EquityValue)
	}
	if math.Abs(outcome.Result.SharePrice-wantEquity/100) > tol {
		t.Errorf("price: expected %v, got %v", wantEquity/100, outcome.Result.SharePrice)
	}
}

func TestValueDeterministic(t *testing.T) {
	rows := goldenRows(t)
	bridge := BridgeInput{TotalDebt: 200, TotalCash: 50, SharesOutstanding: 100}

	first, err := Value(rows, 0.10, 0.03, bridge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Value(rows, 0.10, 0.03, bridge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Result != second.Result || first.Terminal != second.Terminal {
		t.Error("identical inputs must produce bit-identical outcomes")
	}
}

func TestSensitivityPriceDecreasesInWACC(t *testing.T) {
	rows := goldenRows(t)
	bridge := BridgeInput{TotalDebt: 200, TotalCash: 50, SharesOutstanding: 100}
	wacc := capital.WACCEstimate{Lower: 0.08, Point: 0.10, Upper: 0.12}

	band, err := Sensitivity(rows, wacc, 0.03, bridge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(band.Lower.Result.SharePrice > band.Point.Result.SharePrice) {
		t.Errorf("lower-WACC price %v must exceed point price %v",
			band.Lower.Result.SharePrice, band.Point.Result.SharePrice)
	}
	if !(band.Point.Result.SharePrice > band.Upper.Result.SharePrice) {
		t.Errorf("point price %v must exceed upper-WACC price %v",
			band.Point.Result.SharePrice, band.Upper.Result.SharePrice)
	}
}

func TestSensitivityFailsWhenLowerWACCBreachesGrowth(t *testing.T) {
	rows := goldenRows(t)
	bridge := BridgeInput{TotalDebt: 200, TotalCash: 50, SharesOutstanding: 100}
	wacc := capital.WACCEstimate{Lower: 0.02, Point: 0.10, Upper: 0.12}

	_, err := Sensitivity(rows, wacc, 0.03, bridge)
	var derr *models.DomainError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DomainError when lower WACC <= terminal growth, got %v", err)
	}
}
