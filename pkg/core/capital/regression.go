package capital

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"dcf_suite/pkg/models"
)

// MinObservations is the smallest aligned sample the market model will
// fit: below three points the slope interval is meaningless.
const MinObservations = 3

// MarketModelResult holds the fitted single-factor market model.
// The interval is never clamped; the caller judges reliability from
// Observations and RSquared.
type MarketModelResult struct {
	Beta         float64 `json:"beta"`
	BetaLower    float64 `json:"beta_lower"`
	BetaUpper    float64 `json:"beta_upper"`
	Alpha        float64 `json:"alpha"`
	RSquared     float64 `json:"r_squared"`
	StdErr       float64 `json:"std_err"`
	Observations int     `json:"observations"`
}

// FitMarketModel regresses target excess returns on benchmark excess
// returns (OLS with intercept). The 95% confidence interval for beta is
// the standard OLS interval: beta +/- t(0.975, n-2) * SE(beta).
func FitMarketModel(target, benchmark []float64) (MarketModelResult, error) {
	if len(target) != len(benchmark) {
		return MarketModelResult{}, &models.InputValidationError{
			Field:  "return series",
			Reason: "target and benchmark must be equal length and period-aligned",
		}
	}
	n := len(target)
	if n < MinObservations {
		return MarketModelResult{}, &models.InsufficientDataError{
			Op: "market model regression", Need: MinObservations, Got: n,
		}
	}

	alpha, beta := stat.LinearRegression(benchmark, target, nil, false)

	meanX := stat.Mean(benchmark, nil)
	var sse, sxx float64
	for i := range benchmark {
		resid := target[i] - (alpha + beta*benchmark[i])
		sse += resid * resid
		dx := benchmark[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		// Constant benchmark: the slope is unidentified.
		return MarketModelResult{}, &models.InsufficientDataError{
			Op: "market model regression", Need: MinObservations, Got: 1,
		}
	}

	dof := float64(n - 2)
	se := math.Sqrt(sse / dof / sxx)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	crit := tDist.Quantile(0.975)

	return MarketModelResult{
		Beta:         beta,
		BetaLower:    beta - crit*se,
		BetaUpper:    beta + crit*se,
		Alpha:        alpha,
		RSquared:     stat.RSquared(benchmark, target, nil, alpha, beta),
		StdErr:       se,
		Observations: n,
	}, nil
}
