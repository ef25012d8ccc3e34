package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"dcf_suite/pkg/models"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valuation.yaml")
	data := []byte("risk_free_rate: 0.03\nprojection_years: 7\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RiskFreeRate != 0.03 {
		t.Errorf("override not applied: %v", cfg.RiskFreeRate)
	}
	if cfg.ProjectionYears != 7 {
		t.Errorf("override not applied: %v", cfg.ProjectionYears)
	}
	// Unnamed keys keep their defaults.
	if cfg.BenchmarkSymbol != "^GSPC" {
		t.Errorf("default lost: %v", cfg.BenchmarkSymbol)
	}
	if cfg.PeriodsPerYear != 12 {
		t.Errorf("default lost: %v", cfg.PeriodsPerYear)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsZeroPeriods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PeriodsPerYear = 0
	var verr *models.InputValidationError
	if !errors.As(cfg.Validate(), &verr) {
		t.Fatal("expected InputValidationError for zero periods_per_year")
	}
}

func TestPeriodRiskFree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RiskFreeRate = 0.048
	cfg.PeriodsPerYear = 12
	if got := cfg.PeriodRiskFree(); math.Abs(got-0.004) > 1e-12 {
		t.Errorf("expected 0.004 per period, got %v", got)
	}
}
