package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/historical"
	"dcf_suite/pkg/models"
)

const (
	quoteBaseURL   = "https://query1.finance.yahoo.com"
	quoteUserAgent = "Mozilla/5.0 (compatible; dcf-suite/1.0)"
)

// QuoteClient fetches prices and fundamentals from the Yahoo Finance
// JSON endpoints. It satisfies MarketDataProvider.
type QuoteClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewQuoteClient creates a client with a 30-second request timeout.
func NewQuoteClient() *QuoteClient {
	return &QuoteClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    quoteBaseURL,
	}
}

// rawValue mirrors the provider's {"raw": 1.23, "fmt": "1.23"} wrapper.
// Only the raw figure matters downstream.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Symbol    string   `json:"symbol"`
				LongName  string   `json:"longName"`
				MarketCap rawValue `json:"marketCap"`
				Regular   rawValue `json:"regularMarketPrice"`
			} `json:"price"`
			FinancialData *struct {
				TotalDebt rawValue `json:"totalDebt"`
				TotalCash rawValue `json:"totalCash"`
			} `json:"financialData"`
			KeyStatistics *struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			IncomeHistory *struct {
				Statements []incomeStatementJSON `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			IncomeHistoryQuarterly *struct {
				Statements []incomeStatementJSON `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistoryQuarterly"`
			BalanceHistory *struct {
				Statements []balanceSheetJSON `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			CashFlowHistory *struct {
				Statements []cashFlowJSON `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type incomeStatementJSON struct {
	EndDate          rawValue `json:"endDate"`
	TotalRevenue     rawValue `json:"totalRevenue"`
	GrossProfit      rawValue `json:"grossProfit"`
	OperatingIncome  rawValue `json:"operatingIncome"`
	IncomeBeforeTax  rawValue `json:"incomeBeforeTax"`
	IncomeTaxExpense rawValue `json:"incomeTaxExpense"`
}

type balanceSheetJSON struct {
	EndDate              rawValue `json:"endDate"`
	TotalCurrentAssets   rawValue `json:"totalCurrentAssets"`
	Cash                 rawValue `json:"cash"`
	TotalCurrentLiab     rawValue `json:"totalCurrentLiabilities"`
	ShortLongTermDebt    rawValue `json:"shortLongTermDebt"`
	TotalStockholderEqty rawValue `json:"totalStockholderEquity"`
}

type cashFlowJSON struct {
	EndDate              rawValue `json:"endDate"`
	CapitalExpenditures  rawValue `json:"capitalExpenditures"`
	Depreciation         rawValue `json:"depreciation"`
	TotalCashFromOps     rawValue `json:"totalCashFromOperatingActivities"`
	ChangeToNetIncome    rawValue `json:"changeToNetincome"`
	ChangeInWorkingCapit rawValue `json:"changeToOperatingActivities"`
}

func (c *QuoteClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", quoteUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.ExternalDataError{Provider: "yahoo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &models.ExternalDataError{
			Provider: "yahoo",
			Err:      fmt.Errorf("status %d for %s", resp.StatusCode, path),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.ExternalDataError{Provider: "yahoo", Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &models.ExternalDataError{
			Provider: "yahoo",
			Err:      fmt.Errorf("decoding %s: %w", path, err),
		}
	}
	return nil
}

// PriceHistory fetches sampled closes over the lookback window.
// interval follows the provider's notation ("1d", "1wk", "1mo").
func (c *QuoteClient) PriceHistory(ctx context.Context, symbol string, lookback time.Duration, interval string) (capital.PriceSeries, error) {
	now := time.Now()
	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", now.Add(-lookback).Unix()))
	query.Set("period2", fmt.Sprintf("%d", now.Unix()))
	query.Set("interval", interval)
	query.Set("events", "history")

	var decoded chartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query, &decoded); err != nil {
		return nil, err
	}
	if decoded.Chart.Error != nil {
		return nil, &models.ExternalDataError{
			Provider: "yahoo",
			Err:      fmt.Errorf("chart error %s: %s", decoded.Chart.Error.Code, decoded.Chart.Error.Description),
		}
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &models.ExternalDataError{
			Provider: "yahoo",
			Err:      fmt.Errorf("no chart data for %s", symbol),
		}
	}

	result := decoded.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	series := make(capital.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == 0 {
			continue
		}
		series = append(series, capital.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}
	return series, nil
}

func (c *QuoteClient) quoteSummary(ctx context.Context, symbol string, modules string) (*summaryResponse, error) {
	query := url.Values{}
	query.Set("modules", modules)

	var decoded summaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), query, &decoded); err != nil {
		return nil, err
	}
	if decoded.QuoteSummary.Error != nil {
		return nil, &models.ExternalDataError{
			Provider: "yahoo",
			Err: fmt.Errorf("quoteSummary error %s: %s",
				decoded.QuoteSummary.Error.Code, decoded.QuoteSummary.Error.Description),
		}
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return nil, &models.NotFoundError{Kind: "symbol", Key: symbol}
	}
	return &decoded, nil
}

// Profile fetches the capital-structure snapshot for a symbol.
func (c *QuoteClient) Profile(ctx context.Context, symbol string) (CompanyProfile, error) {
	decoded, err := c.quoteSummary(ctx, symbol, "price,financialData,defaultKeyStatistics")
	if err != nil {
		return CompanyProfile{}, err
	}
	r := decoded.QuoteSummary.Result[0]
	if r.Price == nil {
		return CompanyProfile{}, &models.NotFoundError{Kind: "price module", Key: symbol}
	}

	profile := CompanyProfile{
		Symbol:       r.Price.Symbol,
		LongName:     r.Price.LongName,
		MarketCap:    r.Price.MarketCap.Raw,
		CurrentPrice: r.Price.Regular.Raw,
	}
	if r.FinancialData != nil {
		profile.TotalDebt = r.FinancialData.TotalDebt.Raw
		profile.TotalCash = r.FinancialData.TotalCash.Raw
	}
	if r.KeyStatistics != nil {
		profile.SharesOutstanding = r.KeyStatistics.SharesOutstanding.Raw
	}
	return profile, nil
}

func endDateOf(v rawValue) time.Time {
	return time.Unix(int64(v.Raw), 0).UTC()
}

// Statements fetches the annual income, balance-sheet, and cash-flow
// histories. The provider returns newest first; callers get oldest
// first after the historical join sorts them.
func (c *QuoteClient) Statements(ctx context.Context, symbol string) (Statements, error) {
	decoded, err := c.quoteSummary(ctx, symbol,
		"incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory")
	if err != nil {
		return Statements{}, err
	}
	r := decoded.QuoteSummary.Result[0]

	var out Statements
	if r.IncomeHistory != nil {
		for _, s := range r.IncomeHistory.Statements {
			pretax := s.IncomeBeforeTax.Raw
			taxRate := 0.0
			if pretax != 0 {
				taxRate = s.IncomeTaxExpense.Raw / pretax
			}
			out.Income = append(out.Income, historical.IncomePeriod{
				End:              endDateOf(s.EndDate),
				Revenue:          s.TotalRevenue.Raw,
				GrossProfit:      s.GrossProfit.Raw,
				EBIT:             s.OperatingIncome.Raw,
				EBITDA:           s.OperatingIncome.Raw, // refined below from D&A
				EffectiveTaxRate: taxRate,
			})
		}
	}
	if r.BalanceHistory != nil {
		for _, s := range r.BalanceHistory.Statements {
			out.Balance = append(out.Balance, historical.BalancePeriod{
				End:                endDateOf(s.EndDate),
				CurrentAssets:      s.TotalCurrentAssets.Raw,
				Cash:               s.Cash.Raw,
				CurrentLiabilities: s.TotalCurrentLiab.Raw,
				CurrentDebt:        s.ShortLongTermDebt.Raw,
			})
		}
	}
	if r.CashFlowHistory != nil {
		for _, s := range r.CashFlowHistory.Statements {
			out.CashFlow = append(out.CashFlow, historical.CashFlowPeriod{
				End:          endDateOf(s.EndDate),
				Capex:        s.CapitalExpenditures.Raw,
				Depreciation: s.Depreciation.Raw,
			})
		}
	}

	// EBITDA = EBIT + D&A for periods where both statements exist.
	depByDate := make(map[time.Time]float64, len(out.CashFlow))
	for _, cf := range out.CashFlow {
		depByDate[cf.End] = cf.Depreciation
	}
	for i := range out.Income {
		if d, ok := depByDate[out.Income[i].End]; ok {
			out.Income[i].EBITDA = out.Income[i].EBIT + d
		}
	}
	return out, nil
}

// TrailingRevenue sums the four most recent quarterly revenues into the
// LTM base, anchored to the latest quarter's period end. When fewer than
// four quarters come back, the latest annual revenue is the fallback.
func (c *QuoteClient) TrailingRevenue(ctx context.Context, symbol string) (LTMRevenue, error) {
	ltm, qErr := c.quarterlyLTM(ctx, symbol)
	if qErr == nil {
		return ltm, nil
	}
	fmt.Printf("[INGEST] quarterly revenue unavailable for %s (%v), falling back to latest annual\n", symbol, qErr)
	return c.annualLTM(ctx, symbol)
}

// quarterlyLTM fetches the quarterly income history and sums the four
// most recent quarters.
func (c *QuoteClient) quarterlyLTM(ctx context.Context, symbol string) (LTMRevenue, error) {
	decoded, err := c.quoteSummary(ctx, symbol, "incomeStatementHistoryQuarterly")
	if err != nil {
		return LTMRevenue{}, err
	}
	r := decoded.QuoteSummary.Result[0]
	if r.IncomeHistoryQuarterly == nil {
		return LTMRevenue{}, &models.InsufficientDataError{Op: "quarterly revenue", Need: 4, Got: 0}
	}
	quarters := make([]incomeStatementJSON, len(r.IncomeHistoryQuarterly.Statements))
	copy(quarters, r.IncomeHistoryQuarterly.Statements)
	if len(quarters) < 4 {
		return LTMRevenue{}, &models.InsufficientDataError{
			Op: "quarterly revenue", Need: 4, Got: len(quarters),
		}
	}

	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].EndDate.Raw > quarters[j].EndDate.Raw
	})
	var sum float64
	for _, q := range quarters[:4] {
		sum += q.TotalRevenue.Raw
	}
	if sum <= 0 {
		return LTMRevenue{}, &models.InputValidationError{
			Field: "ltm revenue", Reason: "quarterly revenues sum to a non-positive figure",
		}
	}
	return LTMRevenue{Revenue: sum, PeriodEnd: endDateOf(quarters[0].EndDate)}, nil
}

func (c *QuoteClient) annualLTM(ctx context.Context, symbol string) (LTMRevenue, error) {
	statements, err := c.Statements(ctx, symbol)
	if err != nil {
		return LTMRevenue{}, err
	}
	if len(statements.Income) == 0 {
		return LTMRevenue{}, &models.InsufficientDataError{Op: "trailing revenue", Need: 1, Got: 0}
	}
	latest := statements.Income[0]
	for _, p := range statements.Income[1:] {
		if p.End.After(latest.End) {
			latest = p
		}
	}
	if latest.Revenue <= 0 {
		return LTMRevenue{}, &models.InputValidationError{
			Field: "ltm revenue", Reason: "provider returned non-positive revenue",
		}
	}
	return LTMRevenue{Revenue: latest.Revenue, PeriodEnd: latest.End}, nil
}
