package valuation

import (
	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/projection"
)

// SensitivityBand is the valuation rerun at each end of the WACC
// confidence band. The same FCF stream feeds all three passes; only the
// discount rate moves.
type SensitivityBand struct {
	Lower DCFOutcome `json:"lower"`
	Point DCFOutcome `json:"point"`
	Upper DCFOutcome `json:"upper"`
}

// Sensitivity values the projected stream at the lower, point, and
// upper WACC estimates. A lower discount rate gives the higher price,
// so Lower holds the optimistic valuation.
func Sensitivity(rows []projection.Row, wacc capital.WACCEstimate, terminalGrowth float64, bridge BridgeInput) (SensitivityBand, error) {
	lower, err := Value(rows, wacc.Lower, terminalGrowth, bridge)
	if err != nil {
		return SensitivityBand{}, err
	}
	point, err := Value(rows, wacc.Point, terminalGrowth, bridge)
	if err != nil {
		return SensitivityBand{}, err
	}
	upper, err := Value(rows, wacc.Upper, terminalGrowth, bridge)
	if err != nil {
		return SensitivityBand{}, err
	}
	return SensitivityBand{Lower: lower, Point: point, Upper: upper}, nil
}
