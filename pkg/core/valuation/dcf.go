// Package valuation discounts a projected free cash flow stream into an
// enterprise value, a terminal value, and a per-share equity value.
package valuation

import (
	"fmt"
	"math"

	"dcf_suite/pkg/core/projection"
	"dcf_suite/pkg/models"
)

// DiscountedRow pairs a projected year with its present value.
type DiscountedRow struct {
	projection.Row
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
}

// Discount applies mid-period-free end-of-year discounting: year i
// (0-based) is discounted at (1+wacc)^(i+1).
func Discount(rows []projection.Row, wacc float64) ([]DiscountedRow, error) {
	if wacc <= -1 {
		return nil, &models.InputValidationError{Field: "wacc", Reason: "must exceed -100%"}
	}
	out := make([]DiscountedRow, len(rows))
	for i, r := range rows {
		factor := math.Pow(1+wacc, float64(i+1))
		out[i] = DiscountedRow{
			Row:            r,
			DiscountFactor: factor,
			PresentValue:   r.FCF / factor,
		}
	}
	return out, nil
}

// TerminalValueResult carries the Gordon-growth terminal value both at
// the horizon and discounted back to today.
type TerminalValueResult struct {
	TerminalValue float64 `json:"terminal_value"`
	PresentValue  float64 `json:"present_value"`
}

// TerminalValue computes FCF_N*(1+g)/(wacc-g), discounted back over the
// full horizon. A discount rate at or below the perpetuity growth rate
// makes the perpetuity meaningless, so that case is a hard error rather
// than a huge number.
func TerminalValue(finalFCF, wacc, terminalGrowth float64, periods int) (TerminalValueResult, error) {
	if wacc <= terminalGrowth {
		return TerminalValueResult{}, &models.DomainError{
			Invariant: "wacc > terminal growth",
			Detail:    fmt.Sprintf("wacc %.4f vs terminal growth %.4f", wacc, terminalGrowth),
		}
	}
	if periods <= 0 {
		return TerminalValueResult{}, &models.InputValidationError{Field: "periods", Reason: "must be at least 1"}
	}
	tv := finalFCF * (1 + terminalGrowth) / (wacc - terminalGrowth)
	return TerminalValueResult{
		TerminalValue: tv,
		PresentValue:  tv / math.Pow(1+wacc, float64(periods)),
	}, nil
}

// BridgeInput is the balance-sheet data for the enterprise-to-equity
// bridge.
type BridgeInput struct {
	TotalDebt         float64 `json:"total_debt"`
	TotalCash         float64 `json:"total_cash"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}

// ValuationResult is the bottom line of a single DCF pass.
type ValuationResult struct {
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	SharePrice      float64 `json:"share_price"`
}

// EquityBridge walks enterprise value to equity value and per-share
// price. Shares outstanding must be positive.
func EquityBridge(enterpriseValue float64, bridge BridgeInput) (ValuationResult, error) {
	if bridge.SharesOutstanding <= 0 {
		return ValuationResult{}, &models.InputValidationError{
			Field: "shares outstanding", Reason: "must be positive",
		}
	}
	equity := enterpriseValue - bridge.TotalDebt + bridge.TotalCash
	return ValuationResult{
		EnterpriseValue: enterpriseValue,
		EquityValue:     equity,
		SharePrice:      equity / bridge.SharesOutstanding,
	}, nil
}

// DCFOutcome is one full discount pass: the discounted stream, the
// terminal value, and the resulting equity figures.
type DCFOutcome struct {
	WACC          float64             `json:"wacc"`
	Discounted    []DiscountedRow     `json:"discounted"`
	Terminal      TerminalValueResult `json:"terminal"`
	SumPVExplicit float64             `json:"sum_pv_explicit"`
	Result        ValuationResult     `json:"result"`
}

// Value runs discounting, terminal value, and the equity bridge over a
// projected FCF stream at a single discount rate.
func Value(rows []projection.Row, wacc, terminalGrowth float64, bridge BridgeInput) (DCFOutcome, error) {
	if len(rows) == 0 {
		return DCFOutcome{}, &models.InsufficientDataError{Op: "dcf", Need: 1, Got: 0}
	}
	discounted, err := Discount(rows, wacc)
	if err != nil {
		return DCFOutcome{}, err
	}
	var sumPV float64
	for _, d := range discounted {
		sumPV += d.PresentValue
	}
	terminal, err := TerminalValue(rows[len(rows)-1].FCF, wacc, terminalGrowth, len(rows))
	if err != nil {
		return DCFOutcome{}, err
	}
	result, err := EquityBridge(sumPV+terminal.PresentValue, bridge)
	if err != nil {
		return DCFOutcome{}, err
	}
	return DCFOutcome{
		WACC:          wacc,
		Discounted:    discounted,
		Terminal:      terminal,
		SumPVExplicit: sumPV,
		Result:        result,
	}, nil
}
