// Package projection turns an LTM revenue base and year-by-year
// assumption vectors into projected revenue, EBIT, NOPAT, and free cash
// flow rows.
package projection

import (
	"dcf_suite/pkg/models"
)

// AssumptionVector carries one value per projected year for each driver.
// Extended reports whether any driver was padded to the horizon length,
// so callers can tell a padded scenario apart from a fully specified one.
type AssumptionVector struct {
	Growth           []float64 `json:"growth"`
	EBITMargin       []float64 `json:"ebit_margin"`
	ReinvestmentRate []float64 `json:"reinvestment_rate"`
	Extended         bool      `json:"extended"`
}

// ExtendToLength fits a driver vector to n years. A shorter vector is
// padded by repeating its last value; the second return reports that the
// padding happened. A longer vector is truncated to n.
func ExtendToLength(values []float64, n int) ([]float64, bool, error) {
	if n <= 0 {
		return nil, false, &models.InputValidationError{Field: "horizon", Reason: "must be at least 1 year"}
	}
	if len(values) == 0 {
		return nil, false, &models.InputValidationError{Field: "assumption vector", Reason: "no values supplied"}
	}
	if len(values) >= n {
		out := make([]float64, n)
		copy(out, values[:n])
		return out, false, nil
	}
	out := make([]float64, n)
	copy(out, values)
	last := values[len(values)-1]
	for i := len(values); i < n; i++ {
		out[i] = last
	}
	return out, true, nil
}

// Normalize fits all three drivers to the horizon, recording whether any
// of them needed padding.
func (v AssumptionVector) Normalize(n int) (AssumptionVector, error) {
	growth, extGrowth, err := ExtendToLength(v.Growth, n)
	if err != nil {
		return AssumptionVector{}, err
	}
	margin, extMargin, err := ExtendToLength(v.EBITMargin, n)
	if err != nil {
		return AssumptionVector{}, err
	}
	reinv, extReinv, err := ExtendToLength(v.ReinvestmentRate, n)
	if err != nil {
		return AssumptionVector{}, err
	}
	return AssumptionVector{
		Growth:           growth,
		EBITMargin:       margin,
		ReinvestmentRate: reinv,
		Extended:         extGrowth || extMargin || extReinv,
	}, nil
}

// Ramp interpolates linearly from initial to final over n years,
// endpoints included (the "simple mode" declining-growth pattern).
func Ramp(initial, final float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{initial}
	}
	out := make([]float64, n)
	step := (final - initial) / float64(n-1)
	for i := range out {
		out[i] = initial + step*float64(i)
	}
	out[n-1] = final
	return out
}

// Constant repeats a single driver value across the horizon.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
