package projection

import (
	"errors"
	"math"
	"testing"
	"time"

	"dcf_suite/pkg/models"
)

func TestExtendToLengthPads(t *testing.T) {
	out, extended, err := ExtendToLength([]float64{0.10, 0.08}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !extended {
		t.Error("padding a 2-vector to 5 years must be reported")
	}
	want := []float64{0.10, 0.08, 0.08, 0.08, 0.08}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("year %d: expected %v, got %v", i, v, out[i])
		}
	}
}

func TestExtendToLengthTruncates(t *testing.T) {
	out, extended, err := ExtendToLength([]float64{0.10, 0.08, 0.06}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extended {
		t.Error("truncation is not an extension")
	}
	if len(out) != 2 || out[1] != 0.08 {
		t.Errorf("unexpected truncation result: %v", out)
	}
}

func TestExtendToLengthEmptyRejected(t *testing.T) {
	_, _, err := ExtendToLength(nil, 3)
	var verr *models.InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InputValidationError, got %v", err)
	}
}

func TestNormalizeSetsExtendedFlag(t *testing.T) {
	v, err := AssumptionVector{
		Growth:           []float64{0.10, 0.10, 0.10},
		EBITMargin:       []float64{0.25}, // padded
		ReinvestmentRate: []float64{0.30, 0.30, 0.30},
	}.Normalize(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Extended {
		t.Error("padding any single driver must set Extended")
	}
}

func TestRampEndpoints(t *testing.T) {
	r := Ramp(0.20, 0.04, 5)
	if len(r) != 5 {
		t.Fatalf("expected 5 values, got %d", len(r))
	}
	if r[0] != 0.20 || r[4] != 0.04 {
		t.Errorf("ramp endpoints wrong: %v", r)
	}
	if math.Abs(r[2]-0.12) > 1e-12 {
		t.Errorf("expected midpoint 0.12, got %v", r[2])
	}
	if single := Ramp(0.15, 0.02, 1); len(single) != 1 || single[0] != 0.15 {
		t.Errorf("one-year ramp keeps the initial value: %v", single)
	}
}

func TestDatesPreserveFiscalMonthEnd(t *testing.T) {
	anchor := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	dates := Dates(anchor, 3)
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	for i, d := range dates {
		if d.Month() != time.June {
			t.Errorf("date %d lost the fiscal month: %v", i, d)
		}
		if d.Day() != 30 {
			t.Errorf("date %d is not a June month-end: %v", i, d)
		}
		if d.Year() != 2024+i {
			t.Errorf("date %d has wrong year: %v", i, d)
		}
	}
}

func TestDatesHandleFebruary(t *testing.T) {
	anchor := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	dates := Dates(anchor, 2)
	// 2024 is a leap year.
	if dates[0].Day() != 29 {
		t.Errorf("expected 2024-02-29, got %v", dates[0])
	}
	if dates[1].Day() != 28 {
		t.Errorf("expected 2025-02-28, got %v", dates[1])
	}
}

func TestProjectCompoundsRevenue(t *testing.T) {
	vector := AssumptionVector{
		Growth:           []float64{0.10, 0.10},
		EBITMargin:       []float64{0.40, 0.40},
		ReinvestmentRate: []float64{0.30, 0.30},
	}
	rows, err := Project(100, vector, 0.25, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rows[0].Revenue-110) > 1e-9 {
		t.Errorf("year 1 revenue: expected 110, got %v", rows[0].Revenue)
	}
	// Growth compounds off the prior projected year, not the base.
	if math.Abs(rows[1].Revenue-121) > 1e-9 {
		t.Errorf("year 2 revenue: expected 121, got %v", rows[1].Revenue)
	}
	// FCF = rev * margin * (1-tax) * (1-reinv) = 110*0.4*0.75*0.7
	if math.Abs(rows[0].FCF-23.1) > 1e-9 {
		t.Errorf("year 1 FCF: expected 23.1, got %v", rows[0].FCF)
	}
}

func TestProjectRejectsNonPositiveBase(t *testing.T) {
	vector := AssumptionVector{
		Growth:           []float64{0.10},
		EBITMargin:       []float64{0.40},
		ReinvestmentRate: []float64{0.30},
	}
	_, err := Project(0, vector, 0.25, nil)
	var verr *models.InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InputValidationError for zero base, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	data := []byte(`{
  // analyst base case
  name: base
  years: 4
  growth: [0.20, 0.15]
  ebit_margin: [0.30]
  reinvestment_rate: [0.40, 0.35, 0.30]
  tax_rate: 0.21
  terminal_growth: 0.025
}`)
	s, vector, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "base" || s.Years != 4 {
		t.Errorf("scenario header wrong: %+v", s)
	}
	if s.TaxRate != 0.21 || s.TerminalGrowth != 0.025 {
		t.Errorf("scenario rates wrong: %+v", s)
	}
	if len(vector.Growth) != 4 || !vector.Extended {
		t.Errorf("vector not normalized to horizon: %+v", vector)
	}
	if vector.Growth[3] != 0.15 || vector.ReinvestmentRate[3] != 0.30 {
		t.Errorf("padding did not repeat last values: %+v", vector)
	}
}

func TestLoadScenarioRejectsMissingYears(t *testing.T) {
	_, _, err := LoadScenario([]byte(`{ name: broken, growth: [0.1] }`))
	var verr *models.InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InputValidationError, got %v", err)
	}
}
