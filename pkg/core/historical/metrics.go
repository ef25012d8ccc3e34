package historical

import (
	"math"

	"dcf_suite/pkg/models"
)

// NormalizeCapex converts a reported capital-expenditure figure to a
// positive magnitude. Providers typically report it as a negative
// cash-flow-statement outflow; a provider that already reports it
// positive must not be flipped again, so only negative values are
// negated. This is the single place the sign convention is handled.
func NormalizeCapex(reported float64) float64 {
	if reported < 0 {
		return -reported
	}
	return reported
}

func margin(value, revenue float64) models.Metric {
	if revenue == 0 {
		return models.Undefined()
	}
	return models.Defined(value / revenue)
}

func growth(current, prior float64, hasPrior bool) models.Metric {
	if !hasPrior || prior == 0 {
		return models.Undefined()
	}
	return models.Defined(current/prior - 1)
}

func netWorkingCapital(p StatementPeriod) float64 {
	return (p.CurrentAssets - p.Cash) - (p.CurrentLiabilities - p.CurrentDebt)
}

// Derive computes the per-period metric set from joined statement
// periods, ordered oldest first. Outputs align one-to-one with inputs;
// first-period deltas are undefined by construction.
func Derive(periods []StatementPeriod) []PeriodMetrics {
	out := make([]PeriodMetrics, 0, len(periods))
	prevNWC := 0.0

	for i, p := range periods {
		m := PeriodMetrics{
			End:              p.End,
			GrossMargin:      margin(p.GrossProfit, p.Revenue),
			EBITMargin:       margin(p.EBIT, p.Revenue),
			EBITDAMargin:     margin(p.EBITDA, p.Revenue),
			EffectiveTaxRate: p.EffectiveTaxRate,
		}

		hasPrior := i > 0
		if hasPrior {
			m.RevenueGrowth = growth(p.Revenue, periods[i-1].Revenue, true)
			m.EBITGrowth = growth(p.EBIT, periods[i-1].EBIT, true)
		}

		m.NetWorkingCapital = netWorkingCapital(p)
		if hasPrior {
			m.ChangeInNWC = models.Defined(m.NetWorkingCapital - prevNWC)
		}
		prevNWC = m.NetWorkingCapital

		m.NOPAT = p.EBIT * (1 - p.EffectiveTaxRate)

		if m.ChangeInNWC.Defined {
			reinvestment := NormalizeCapex(p.Capex) - p.Depreciation + m.ChangeInNWC.Value
			m.Reinvestment = models.Defined(reinvestment)
			// The rate is undefined when NOPAT is non-positive, even though
			// reinvestment itself is a finite number.
			if m.NOPAT > 0 {
				m.ReinvestmentRate = models.Defined(reinvestment / m.NOPAT)
			}
		}

		out = append(out, m)
	}
	return out
}

// Averages summarizes the metric series, skipping undefined periods
// (the first period contributes no growth or reinvestment figures).
// Used to seed projection assumption defaults.
type Averages struct {
	RevenueGrowth    models.Metric `json:"revenue_growth"`
	EBITGrowth       models.Metric `json:"ebit_growth"`
	GrossMargin      models.Metric `json:"gross_margin"`
	EBITMargin       models.Metric `json:"ebit_margin"`
	EBITDAMargin     models.Metric `json:"ebitda_margin"`
	TaxRate          models.Metric `json:"tax_rate"`
	ReinvestmentRate models.Metric `json:"reinvestment_rate"`
}

func meanDefined(values []models.Metric) models.Metric {
	var sum float64
	var n int
	for _, v := range values {
		if v.Defined && !math.IsNaN(v.Value) {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return models.Undefined()
	}
	return models.Defined(sum / float64(n))
}

// Average computes per-metric means over the defined periods only.
func Average(metrics []PeriodMetrics) Averages {
	collect := func(pick func(PeriodMetrics) models.Metric) models.Metric {
		vals := make([]models.Metric, 0, len(metrics))
		for _, m := range metrics {
			vals = append(vals, pick(m))
		}
		return meanDefined(vals)
	}

	return Averages{
		RevenueGrowth:    collect(func(m PeriodMetrics) models.Metric { return m.RevenueGrowth }),
		EBITGrowth:       collect(func(m PeriodMetrics) models.Metric { return m.EBITGrowth }),
		GrossMargin:      collect(func(m PeriodMetrics) models.Metric { return m.GrossMargin }),
		EBITMargin:       collect(func(m PeriodMetrics) models.Metric { return m.EBITMargin }),
		EBITDAMargin:     collect(func(m PeriodMetrics) models.Metric { return m.EBITDAMargin }),
		TaxRate:          collect(func(m PeriodMetrics) models.Metric { return models.Defined(m.EffectiveTaxRate) }),
		ReinvestmentRate: collect(func(m PeriodMetrics) models.Metric { return m.ReinvestmentRate }),
	}
}
