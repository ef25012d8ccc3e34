// Package ingest fetches the market and fundamental data the valuation
// pipeline consumes. Everything downstream depends only on the
// MarketDataProvider interface so tests can swap in fixtures.
package ingest

import (
	"context"
	"time"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/historical"
)

// CompanyProfile is the snapshot needed for the capital structure and
// the equity bridge.
type CompanyProfile struct {
	Symbol            string  `json:"symbol"`
	LongName          string  `json:"long_name"`
	MarketCap         float64 `json:"market_cap"`
	TotalDebt         float64 `json:"total_debt"`
	TotalCash         float64 `json:"total_cash"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	CurrentPrice      float64 `json:"current_price"`
}

// LTMRevenue is the trailing-twelve-month revenue base the projection
// starts from, with the fiscal period it anchors to.
type LTMRevenue struct {
	Revenue   float64   `json:"revenue"`
	PeriodEnd time.Time `json:"period_end"`
}

// Statements bundles the three historical statement series before the
// merge-by-date join.
type Statements struct {
	Income   []historical.IncomePeriod
	Balance  []historical.BalancePeriod
	CashFlow []historical.CashFlowPeriod
}

// MarketDataProvider is the single data dependency of the pipeline.
type MarketDataProvider interface {
	PriceHistory(ctx context.Context, symbol string, lookback time.Duration, interval string) (capital.PriceSeries, error)
	Profile(ctx context.Context, symbol string) (CompanyProfile, error)
	Statements(ctx context.Context, symbol string) (Statements, error)
	TrailingRevenue(ctx context.Context, symbol string) (LTMRevenue, error)
}
