// Package pipeline orchestrates a full valuation run: ingest, beta
// regression, WACC band, historical metrics, projection, and the final
// DCF sensitivity band.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"dcf_suite/pkg/models"
)

// Config is the run configuration, loaded from config/valuation.yaml.
// Rates are decimals (0.045 = 4.5%).
type Config struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate"`
	EquityRiskPremium float64 `yaml:"equity_risk_premium"`
	MarginalTaxRate   float64 `yaml:"marginal_tax_rate"`

	BenchmarkSymbol string `yaml:"benchmark_symbol"`
	LookbackYears   int    `yaml:"lookback_years"`
	Interval        string `yaml:"interval"`
	PeriodsPerYear  int    `yaml:"periods_per_year"`

	ProjectionYears int     `yaml:"projection_years"`
	TerminalGrowth  float64 `yaml:"terminal_growth"`
	CreditRating    string  `yaml:"credit_rating"`

	ScenarioPath string `yaml:"scenario_path"`
}

// DefaultConfig mirrors config/valuation.yaml's shipped defaults:
// monthly sampling over five years against the S&P 500.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:      0.045,
		EquityRiskPremium: 0.055,
		MarginalTaxRate:   0.21,
		BenchmarkSymbol:   "^GSPC",
		LookbackYears:     5,
		Interval:          "1mo",
		PeriodsPerYear:    12,
		ProjectionYears:   5,
		TerminalGrowth:    0.025,
		CreditRating:      "Baa2/BBB",
	}
}

// LoadConfig reads a YAML config file over the defaults, so partial
// files only override what they name.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that cannot produce a valuation.
func (c Config) Validate() error {
	switch {
	case c.PeriodsPerYear <= 0:
		return &models.InputValidationError{Field: "periods_per_year", Reason: "must be positive"}
	case c.LookbackYears <= 0:
		return &models.InputValidationError{Field: "lookback_years", Reason: "must be positive"}
	case c.ProjectionYears <= 0:
		return &models.InputValidationError{Field: "projection_years", Reason: "must be positive"}
	case c.BenchmarkSymbol == "":
		return &models.InputValidationError{Field: "benchmark_symbol", Reason: "required"}
	case c.CreditRating == "":
		return &models.InputValidationError{Field: "credit_rating", Reason: "required"}
	}
	return nil
}

// PeriodRiskFree is the per-sampling-period risk-free rate used when
// computing excess returns: the annual rate divided by periods per year.
func (c Config) PeriodRiskFree() float64 {
	return c.RiskFreeRate / float64(c.PeriodsPerYear)
}
