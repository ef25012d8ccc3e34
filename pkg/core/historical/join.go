package historical

import (
	"sort"
	"time"
)

func periodKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// JoinStatements merges income-statement, balance-sheet, and cash-flow
// periods by period-end date. A period missing on any side is dropped;
// nothing is interpolated. The result is date-ascending.
func JoinStatements(income []IncomePeriod, balance []BalancePeriod, cashflow []CashFlowPeriod) []StatementPeriod {
	balanceByEnd := make(map[string]BalancePeriod, len(balance))
	for _, b := range balance {
		balanceByEnd[periodKey(b.End)] = b
	}
	cashflowByEnd := make(map[string]CashFlowPeriod, len(cashflow))
	for _, c := range cashflow {
		cashflowByEnd[periodKey(c.End)] = c
	}

	var joined []StatementPeriod
	for _, is := range income {
		key := periodKey(is.End)
		bs, okBS := balanceByEnd[key]
		cf, okCF := cashflowByEnd[key]
		if !okBS || !okCF {
			continue
		}
		joined = append(joined, StatementPeriod{
			End:                is.End,
			Revenue:            is.Revenue,
			EBIT:               is.EBIT,
			EBITDA:             is.EBITDA,
			GrossProfit:        is.GrossProfit,
			EffectiveTaxRate:   is.EffectiveTaxRate,
			CurrentAssets:      bs.CurrentAssets,
			CurrentLiabilities: bs.CurrentLiabilities,
			Cash:               bs.Cash,
			CurrentDebt:        bs.CurrentDebt,
			Capex:              cf.Capex,
			Depreciation:       cf.Depreciation,
		})
	}

	sort.Slice(joined, func(i, j int) bool { return joined[i].End.Before(joined[j].End) })
	return joined
}
