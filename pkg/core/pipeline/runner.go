package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/historical"
	"dcf_suite/pkg/core/ingest"
	"dcf_suite/pkg/core/projection"
	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/core/valuation"
	"dcf_suite/pkg/models"
)

// RunStore persists finished run summaries. Implemented by
// store.RunRepo; nil disables persistence.
type RunStore interface {
	SaveRun(ctx context.Context, summary *valuation.Summary) error
}

// Runner wires the data provider, spread table, and optional run store
// into the full valuation pipeline.
type Runner struct {
	provider ingest.MarketDataProvider
	spreads  spread.Table
	store    RunStore
	cfg      Config
}

func NewRunner(provider ingest.MarketDataProvider, spreads spread.Table, store RunStore, cfg Config) *Runner {
	return &Runner{provider: provider, spreads: spreads, store: store, cfg: cfg}
}

// Run executes the pipeline for one ticker and returns the full
// summary. Stages log progress; any stage failure aborts the run.
func (r *Runner) Run(ctx context.Context, ticker string) (*valuation.Summary, error) {
	runID := uuid.New().String()
	fmt.Printf("[PIPELINE] Run %s starting for %s\n", runID, ticker)

	profile, err := r.provider.Profile(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("profile stage failed: %w", err)
	}
	fmt.Printf("[INGEST] %s: market cap %.0f, debt %.0f, cash %.0f\n",
		profile.Symbol, profile.MarketCap, profile.TotalDebt, profile.TotalCash)

	waccBand, model, err := r.estimateCostOfCapital(ctx, ticker, profile)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[CAPITAL] beta %.3f [%.3f, %.3f], WACC %.4f [%.4f, %.4f]\n",
		model.Beta, model.BetaLower, model.BetaUpper,
		waccBand.Point, waccBand.Lower, waccBand.Upper)

	statements, err := r.provider.Statements(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("statements stage failed: %w", err)
	}
	joined := historical.JoinStatements(statements.Income, statements.Balance, statements.CashFlow)
	if len(joined) == 0 {
		return nil, &models.InsufficientDataError{Op: "historical metrics", Need: 1, Got: 0}
	}
	metrics := historical.Derive(joined)
	averages := historical.Average(metrics)
	fmt.Printf("[HISTORICAL] %d joined periods\n", len(joined))

	ltm, err := r.provider.TrailingRevenue(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("trailing revenue stage failed: %w", err)
	}

	vector, taxRate, terminalGrowth, err := r.assumptions(averages)
	if err != nil {
		return nil, err
	}

	dates := projection.Dates(ltm.PeriodEnd, len(vector.Growth))
	rows, err := projection.Project(ltm.Revenue, vector, taxRate, dates)
	if err != nil {
		return nil, fmt.Errorf("projection stage failed: %w", err)
	}
	fmt.Printf("[PROJECTION] %d years from LTM revenue %.0f\n", len(rows), ltm.Revenue)

	bridge := valuation.BridgeInput{
		TotalDebt:         profile.TotalDebt,
		TotalCash:         profile.TotalCash,
		SharesOutstanding: profile.SharesOutstanding,
	}
	band, err := valuation.Sensitivity(rows, waccBand, terminalGrowth, bridge)
	if err != nil {
		return nil, fmt.Errorf("valuation stage failed: %w", err)
	}
	fmt.Printf("[VALUATION] price %.2f [%.2f, %.2f]\n",
		band.Point.Result.SharePrice,
		band.Upper.Result.SharePrice, band.Lower.Result.SharePrice)

	summary := &valuation.Summary{
		RunID:          runID,
		Ticker:         ticker,
		GeneratedAt:    time.Now().UTC(),
		Profile:        profile,
		Beta:           model,
		WACC:           waccBand,
		Historical:     metrics,
		Averages:       averages,
		Assumptions:    vector,
		TerminalGrowth: terminalGrowth,
		Projected:      rows,
		Band:           band,
	}

	if r.store != nil {
		if err := r.store.SaveRun(ctx, summary); err != nil {
			// Persistence is best-effort; the valuation itself succeeded.
			fmt.Printf("[STORE] failed to save run %s: %v\n", runID, err)
		} else {
			fmt.Printf("[STORE] run %s saved\n", runID)
		}
	}
	return summary, nil
}

// CostOfCapital runs just the ingest and capital stages, for callers
// that want the WACC band without a full valuation.
func (r *Runner) CostOfCapital(ctx context.Context, ticker string) (capital.WACCEstimate, capital.MarketModelResult, error) {
	profile, err := r.provider.Profile(ctx, ticker)
	if err != nil {
		return capital.WACCEstimate{}, capital.MarketModelResult{}, fmt.Errorf("profile stage failed: %w", err)
	}
	return r.estimateCostOfCapital(ctx, ticker, profile)
}

// estimateCostOfCapital runs the beta regression over aligned excess
// returns and blends the WACC band.
func (r *Runner) estimateCostOfCapital(ctx context.Context, ticker string, profile ingest.CompanyProfile) (capital.WACCEstimate, capital.MarketModelResult, error) {
	lookback := time.Duration(r.cfg.LookbackYears) * 365 * 24 * time.Hour

	target, err := r.provider.PriceHistory(ctx, ticker, lookback, r.cfg.Interval)
	if err != nil {
		return capital.WACCEstimate{}, capital.MarketModelResult{}, fmt.Errorf("price history for %s: %w", ticker, err)
	}
	benchmark, err := r.provider.PriceHistory(ctx, r.cfg.BenchmarkSymbol, lookback, r.cfg.Interval)
	if err != nil {
		return capital.WACCEstimate{}, capital.MarketModelResult{}, fmt.Errorf("price history for %s: %w", r.cfg.BenchmarkSymbol, err)
	}

	alignedTarget, alignedBenchmark := capital.AlignSeries(target, benchmark)
	periodRF := r.cfg.PeriodRiskFree()
	targetReturns := capital.ExcessReturns(alignedTarget, periodRF)
	benchmarkReturns := capital.ExcessReturns(alignedBenchmark, periodRF)

	model, err := capital.FitMarketModel(targetReturns, benchmarkReturns)
	if err != nil {
		return capital.WACCEstimate{}, capital.MarketModelResult{}, fmt.Errorf("market model regression: %w", err)
	}

	band, err := capital.EstimateWACC(capital.WACCInput{
		Structure: capital.CapitalStructure{
			MarketCap: profile.MarketCap,
			TotalDebt: profile.TotalDebt,
		},
		Model:             model,
		RiskFreeRate:      r.cfg.RiskFreeRate,
		EquityRiskPremium: r.cfg.EquityRiskPremium,
		MarginalTaxRate:   r.cfg.MarginalTaxRate,
		CreditRating:      r.cfg.CreditRating,
		Spreads:           r.spreads,
	})
	if err != nil {
		return capital.WACCEstimate{}, capital.MarketModelResult{}, fmt.Errorf("wacc estimation: %w", err)
	}
	return band, model, nil
}

// assumptions builds the projection drivers: from the scenario file when
// configured, otherwise seeded from historical averages with the
// configured horizon and a flat driver per year.
func (r *Runner) assumptions(averages historical.Averages) (projection.AssumptionVector, float64, float64, error) {
	if r.cfg.ScenarioPath != "" {
		data, err := os.ReadFile(r.cfg.ScenarioPath)
		if err != nil {
			return projection.AssumptionVector{}, 0, 0, fmt.Errorf("failed to read scenario %s: %w", r.cfg.ScenarioPath, err)
		}
		scenario, vector, err := projection.LoadScenario(data)
		if err != nil {
			return projection.AssumptionVector{}, 0, 0, err
		}
		fmt.Printf("[ASSUMPTIONS] scenario %q, %d years\n", scenario.Name, scenario.Years)
		return vector, scenario.TaxRate, scenario.TerminalGrowth, nil
	}

	growth := averages.RevenueGrowth
	margin := averages.EBITMargin
	reinvestment := averages.ReinvestmentRate
	var missing []string
	if !growth.Defined {
		missing = append(missing, "revenue growth")
	}
	if !margin.Defined {
		missing = append(missing, "EBIT margin")
	}
	if !reinvestment.Defined {
		missing = append(missing, "reinvestment rate")
	}
	if len(missing) > 0 {
		return projection.AssumptionVector{}, 0, 0, &models.InputValidationError{
			Field:  "historical averages",
			Reason: fmt.Sprintf("cannot seed assumptions, undefined: %s", strings.Join(missing, ", ")),
		}
	}
	taxRate := r.cfg.MarginalTaxRate
	if averages.TaxRate.Defined {
		taxRate = averages.TaxRate.Value
	}

	n := r.cfg.ProjectionYears
	// Growth ramps down toward the terminal rate; margin and reinvestment
	// hold at their historical averages.
	vector, err := projection.AssumptionVector{
		Growth:           projection.Ramp(growth.Value, r.cfg.TerminalGrowth, n),
		EBITMargin:       projection.Constant(margin.Value, n),
		ReinvestmentRate: projection.Constant(reinvestment.Value, n),
	}.Normalize(n)
	if err != nil {
		return projection.AssumptionVector{}, 0, 0, err
	}
	fmt.Printf("[ASSUMPTIONS] seeded from historical averages over %d years\n", n)
	return vector, taxRate, r.cfg.TerminalGrowth, nil
}
