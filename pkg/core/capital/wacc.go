package capital

import (
	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/models"
)

// CapitalStructure holds the market values used to weight equity and debt.
type CapitalStructure struct {
	MarketCap float64 `json:"market_cap"`
	TotalDebt float64 `json:"total_debt"`
}

// Weights derives equity and debt weights summing to 1.0. A non-positive
// capital base is a fatal input error: no weights can be derived.
func (c CapitalStructure) Weights() (wE, wD float64, err error) {
	total := c.MarketCap + c.TotalDebt
	if total <= 0 {
		return 0, 0, &models.InputValidationError{
			Field:  "capital structure",
			Reason: "market cap + total debt must be positive",
		}
	}
	return c.MarketCap / total, c.TotalDebt / total, nil
}

// CostOfEquity applies CAPM: rf + beta * erp.
func CostOfEquity(beta, riskFree, equityRiskPremium float64) float64 {
	return riskFree + beta*equityRiskPremium
}

// CostOfDebt is the risk-free rate plus the rating's default spread.
// A failed rating lookup is fatal; there is no placeholder spread.
func CostOfDebt(riskFree float64, rating string, table spread.Table) (float64, error) {
	s, err := table.LookupSpread(rating)
	if err != nil {
		return 0, err
	}
	return riskFree + s, nil
}

// WACC blends the component costs: wE*kE + wD*kD*(1-t).
func WACC(equityWeight, costOfEquity, debtWeight, costOfDebt, taxRate float64) float64 {
	return equityWeight*costOfEquity + debtWeight*costOfDebt*(1-taxRate)
}

// WACCEstimate is a point estimate with a two-sided confidence band.
// Lower <= Point <= Upper holds because cost of equity is affine in beta.
type WACCEstimate struct {
	Lower float64 `json:"lower"`
	Point float64 `json:"point"`
	Upper float64 `json:"upper"`
}

// WACCInput bundles everything needed to estimate the WACC band.
type WACCInput struct {
	Structure         CapitalStructure
	Model             MarketModelResult
	RiskFreeRate      float64
	EquityRiskPremium float64
	MarginalTaxRate   float64
	CreditRating      string
	Spreads           spread.Table
}

// EstimateWACC computes the WACC band by substituting beta's interval
// endpoints into CAPM and re-running the WACC formula, holding cost of
// debt fixed. Substitution is exact here because the beta -> WACC
// transform is affine; do not replace it with variance propagation.
func EstimateWACC(in WACCInput) (WACCEstimate, error) {
	wE, wD, err := in.Structure.Weights()
	if err != nil {
		return WACCEstimate{}, err
	}

	kD, err := CostOfDebt(in.RiskFreeRate, in.CreditRating, in.Spreads)
	if err != nil {
		return WACCEstimate{}, err
	}

	kELower := CostOfEquity(in.Model.BetaLower, in.RiskFreeRate, in.EquityRiskPremium)
	kEPoint := CostOfEquity(in.Model.Beta, in.RiskFreeRate, in.EquityRiskPremium)
	kEUpper := CostOfEquity(in.Model.BetaUpper, in.RiskFreeRate, in.EquityRiskPremium)

	return WACCEstimate{
		Lower: WACC(wE, kELower, wD, kD, in.MarginalTaxRate),
		Point: WACC(wE, kEPoint, wD, kD, in.MarginalTaxRate),
		Upper: WACC(wE, kEUpper, wD, kD, in.MarginalTaxRate),
	}, nil
}
