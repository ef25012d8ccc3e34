// Package capital estimates a firm's cost of capital: a market-model
// regression for beta with a confidence interval, CAPM cost of equity,
// credit-spread cost of debt, and the blended WACC band.
package capital

import (
	"sort"
	"time"
)

// PricePoint is one sampled close in a price history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a date-ascending sampled price history.
type PriceSeries []PricePoint

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// AlignSeries joins two price series on their sampling dates. Dates
// present on only one side are dropped — an explicit merge-by-key, never
// positional alignment. Dates where either close is non-positive are
// also dropped from both sides, so return vectors computed from the
// aligned pair stay index-aligned. Both results come back date-ascending.
func AlignSeries(a, b PriceSeries) (PriceSeries, PriceSeries) {
	bByDate := make(map[string]PricePoint, len(b))
	for _, p := range b {
		bByDate[dateKey(p.Date)] = p
	}

	var alignedA, alignedB PriceSeries
	for _, p := range a {
		if p.Close <= 0 {
			continue
		}
		if q, ok := bByDate[dateKey(p.Date)]; ok && q.Close > 0 {
			alignedA = append(alignedA, p)
			alignedB = append(alignedB, q)
		}
	}

	sort.Slice(alignedA, func(i, j int) bool { return alignedA[i].Date.Before(alignedA[j].Date) })
	sort.Slice(alignedB, func(i, j int) bool { return alignedB[i].Date.Before(alignedB[j].Date) })
	return alignedA, alignedB
}

// ExcessReturns converts prices to period-over-period percentage returns
// minus the per-period risk-free rate. The first period has no prior
// price and is dropped, so the result has len(series)-1 observations.
//
// periodRiskFree is the risk-free rate per sampling period (an annual
// rate divided by periods per year), a deliberate parameter rather than
// a hidden constant.
func ExcessReturns(series PriceSeries, periodRiskFree float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		// AlignSeries already filters non-positive closes; this guard
		// only protects direct callers from a division by zero.
		if prev == 0 {
			continue
		}
		r := (series[i].Close - prev) / prev
		returns = append(returns, r-periodRiskFree)
	}
	return returns
}
