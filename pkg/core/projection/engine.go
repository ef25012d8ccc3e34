package projection

import (
	"time"

	"dcf_suite/pkg/models"
)

// Row is one projected fiscal year.
type Row struct {
	Date             time.Time `json:"date"`
	Growth           float64   `json:"growth"`
	EBITMargin       float64   `json:"ebit_margin"`
	ReinvestmentRate float64   `json:"reinvestment_rate"`
	Revenue          float64   `json:"revenue"`
	EBIT             float64   `json:"ebit"`
	NOPAT            float64   `json:"nopat"`
	FCF              float64   `json:"fcf"`
}

// Project rolls the LTM revenue base forward through the assumption
// vector. Revenue compounds as the cumulative product of (1+g) so each
// year's growth applies to the prior projected year, not to the base.
// The vector must already be normalized to the horizon; dates, when
// supplied, must match its length.
func Project(ltmRevenue float64, vector AssumptionVector, taxRate float64, dates []time.Time) ([]Row, error) {
	if ltmRevenue <= 0 {
		return nil, &models.InputValidationError{Field: "ltm revenue", Reason: "must be positive"}
	}
	n := len(vector.Growth)
	if n == 0 || len(vector.EBITMargin) != n || len(vector.ReinvestmentRate) != n {
		return nil, &models.InputValidationError{Field: "assumption vector", Reason: "drivers must be non-empty and equal length"}
	}
	if dates != nil && len(dates) != n {
		return nil, &models.InputValidationError{Field: "projection dates", Reason: "must match horizon length"}
	}

	rows := make([]Row, n)
	revenue := ltmRevenue
	for i := 0; i < n; i++ {
		revenue *= 1 + vector.Growth[i]
		ebit := revenue * vector.EBITMargin[i]
		nopat := ebit * (1 - taxRate)
		row := Row{
			Growth:           vector.Growth[i],
			EBITMargin:       vector.EBITMargin[i],
			ReinvestmentRate: vector.ReinvestmentRate[i],
			Revenue:          revenue,
			EBIT:             ebit,
			NOPAT:            nopat,
			FCF:              nopat * (1 - vector.ReinvestmentRate[i]),
		}
		if dates != nil {
			row.Date = dates[i]
		}
		rows[i] = row
	}
	return rows, nil
}
