// Package historical derives valuation metrics (growth, margins, working
// capital, reinvestment, NOPAT) from normalized financial-statement
// periods. All transforms are pure and per-period; deltas reference only
// the immediately prior period.
package historical

import (
	"time"

	"dcf_suite/pkg/models"
)

// IncomePeriod holds one fiscal period of income-statement line items.
type IncomePeriod struct {
	End              time.Time `json:"end"`
	Revenue          float64   `json:"revenue"`
	EBIT             float64   `json:"ebit"`
	EBITDA           float64   `json:"ebitda"`
	GrossProfit      float64   `json:"gross_profit"`
	EffectiveTaxRate float64   `json:"effective_tax_rate"`
}

// BalancePeriod holds one fiscal period of balance-sheet line items.
type BalancePeriod struct {
	End                time.Time `json:"end"`
	CurrentAssets      float64   `json:"current_assets"`
	CurrentLiabilities float64   `json:"current_liabilities"`
	Cash               float64   `json:"cash"`
	CurrentDebt        float64   `json:"current_debt"`
}

// CashFlowPeriod holds one fiscal period of cash-flow-statement items.
// Capex is the reported signed figure; most providers report it as a
// negative cash outflow.
type CashFlowPeriod struct {
	End          time.Time `json:"end"`
	Capex        float64   `json:"capex"`
	Depreciation float64   `json:"depreciation"`
}

// StatementPeriod is the cross-statement join of one reporting period.
type StatementPeriod struct {
	End                time.Time `json:"end"`
	Revenue            float64   `json:"revenue"`
	EBIT               float64   `json:"ebit"`
	EBITDA             float64   `json:"ebitda"`
	GrossProfit        float64   `json:"gross_profit"`
	EffectiveTaxRate   float64   `json:"effective_tax_rate"`
	CurrentAssets      float64   `json:"current_assets"`
	CurrentLiabilities float64   `json:"current_liabilities"`
	Cash               float64   `json:"cash"`
	CurrentDebt        float64   `json:"current_debt"`
	Capex              float64   `json:"capex"`
	Depreciation       float64   `json:"depreciation"`
}

// PeriodMetrics is the derived output for one reporting period, aligned
// one-to-one with the input periods. Quantities that do not exist for a
// period (first-period deltas, rates over non-positive denominators)
// carry an undefined marker, never a default number.
type PeriodMetrics struct {
	End               time.Time     `json:"end"`
	RevenueGrowth     models.Metric `json:"revenue_growth"`
	EBITGrowth        models.Metric `json:"ebit_growth"`
	GrossMargin       models.Metric `json:"gross_margin"`
	EBITMargin        models.Metric `json:"ebit_margin"`
	EBITDAMargin      models.Metric `json:"ebitda_margin"`
	NetWorkingCapital float64       `json:"net_working_capital"`
	ChangeInNWC       models.Metric `json:"change_in_nwc"`
	Reinvestment      models.Metric `json:"reinvestment"`
	NOPAT             float64       `json:"nopat"`
	ReinvestmentRate  models.Metric `json:"reinvestment_rate"`
	EffectiveTaxRate  float64       `json:"effective_tax_rate"`
}
