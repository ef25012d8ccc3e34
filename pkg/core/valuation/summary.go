package valuation

import (
	"time"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/historical"
	"dcf_suite/pkg/core/ingest"
	"dcf_suite/pkg/core/projection"
)

// Summary is the full artifact of one pipeline run, serialized to the
// run-history store and rendered into the markdown report.
type Summary struct {
	RunID       string    `json:"run_id"`
	Ticker      string    `json:"ticker"`
	GeneratedAt time.Time `json:"generated_at"`

	Profile ingest.CompanyProfile `json:"profile"`

	Beta capital.MarketModelResult `json:"beta"`
	WACC capital.WACCEstimate      `json:"wacc"`

	Historical []historical.PeriodMetrics `json:"historical"`
	Averages   historical.Averages        `json:"averages"`

	Assumptions    projection.AssumptionVector `json:"assumptions"`
	TerminalGrowth float64                     `json:"terminal_growth"`
	Projected      []projection.Row            `json:"projected"`

	Band SensitivityBand `json:"band"`
}

// Upside is the point-estimate share price relative to the current
// market price, as a fraction. Zero when the market price is unknown.
func (s *Summary) Upside() float64 {
	if s.Profile.CurrentPrice <= 0 {
		return 0
	}
	return s.Band.Point.Result.SharePrice/s.Profile.CurrentPrice - 1
}
