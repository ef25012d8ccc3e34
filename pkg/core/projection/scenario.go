package projection

import (
	"fmt"

	hjson "github.com/hjson/hjson-go/v4"

	"dcf_suite/pkg/models"
)

// Scenario is a user-authored assumption file. HJSON keeps the files
// comment-friendly for analysts editing them by hand.
type Scenario struct {
	Name             string    `json:"name"`
	Years            int       `json:"years"`
	Growth           []float64 `json:"growth"`
	EBITMargin       []float64 `json:"ebit_margin"`
	ReinvestmentRate []float64 `json:"reinvestment_rate"`
	TaxRate          float64   `json:"tax_rate"`
	TerminalGrowth   float64   `json:"terminal_growth"`
}

// LoadScenario parses an HJSON scenario and normalizes its drivers to
// the declared horizon.
func LoadScenario(data []byte) (Scenario, AssumptionVector, error) {
	var s Scenario
	if err := hjson.Unmarshal(data, &s); err != nil {
		return Scenario{}, AssumptionVector{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if s.Years <= 0 {
		return Scenario{}, AssumptionVector{}, &models.InputValidationError{
			Field: "scenario.years", Reason: "must be at least 1",
		}
	}
	vector, err := AssumptionVector{
		Growth:           s.Growth,
		EBITMargin:       s.EBITMargin,
		ReinvestmentRate: s.ReinvestmentRate,
	}.Normalize(s.Years)
	if err != nil {
		return Scenario{}, AssumptionVector{}, err
	}
	return s, vector, nil
}
