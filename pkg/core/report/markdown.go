// Package report renders a valuation summary into a markdown report and
// an HTML version for the API.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"dcf_suite/pkg/core/valuation"
	"dcf_suite/pkg/models"
)

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func metricCell(m models.Metric) string {
	if !m.Defined {
		return "n/a"
	}
	return pct(m.Value)
}

func money(v float64) string {
	switch {
	case v >= 1e9 || v <= -1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6 || v <= -1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// BuildMarkdown renders the full run summary as a markdown document.
func BuildMarkdown(s *valuation.Summary) string {
	var b strings.Builder

	name := s.Profile.LongName
	if name == "" {
		name = s.Ticker
	}
	fmt.Fprintf(&b, "# DCF Valuation: %s (%s)\n\n", name, s.Ticker)
	fmt.Fprintf(&b, "Run `%s`, generated %s\n\n", s.RunID, s.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Cost of Capital\n\n")
	fmt.Fprintf(&b, "| | Lower | Point | Upper |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| Beta | %.3f | %.3f | %.3f |\n", s.Beta.BetaLower, s.Beta.Beta, s.Beta.BetaUpper)
	fmt.Fprintf(&b, "| WACC | %s | %s | %s |\n\n", pct(s.WACC.Lower), pct(s.WACC.Point), pct(s.WACC.Upper))
	fmt.Fprintf(&b, "Regression: %d observations, R² %.3f, SE(beta) %.4f\n\n",
		s.Beta.Observations, s.Beta.RSquared, s.Beta.StdErr)

	b.WriteString("## Historical Metrics\n\n")
	b.WriteString("| Period | Rev Growth | EBIT Margin | Reinv Rate |\n|---|---|---|---|\n")
	for _, m := range s.Historical {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			m.End.Format("2006-01-02"),
			metricCell(m.RevenueGrowth), metricCell(m.EBITMargin), metricCell(m.ReinvestmentRate))
	}
	fmt.Fprintf(&b, "| **Average** | %s | %s | %s |\n\n",
		metricCell(s.Averages.RevenueGrowth), metricCell(s.Averages.EBITMargin),
		metricCell(s.Averages.ReinvestmentRate))

	b.WriteString("## Projection\n\n")
	if s.Assumptions.Extended {
		b.WriteString("Assumption vectors were padded to the horizon by repeating their last value.\n\n")
	}
	b.WriteString("| Year End | Growth | Revenue | EBIT | FCF |\n|---|---|---|---|---|\n")
	for _, r := range s.Projected {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Date.Format("2006-01-02"), pct(r.Growth), money(r.Revenue), money(r.EBIT), money(r.FCF))
	}
	b.WriteString("\n")

	b.WriteString("## Valuation\n\n")
	fmt.Fprintf(&b, "Terminal growth: %s\n\n", pct(s.TerminalGrowth))
	b.WriteString("| | Low WACC | Point | High WACC |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| WACC | %s | %s | %s |\n",
		pct(s.Band.Lower.WACC), pct(s.Band.Point.WACC), pct(s.Band.Upper.WACC))
	fmt.Fprintf(&b, "| Enterprise Value | %s | %s | %s |\n",
		money(s.Band.Lower.Result.EnterpriseValue),
		money(s.Band.Point.Result.EnterpriseValue),
		money(s.Band.Upper.Result.EnterpriseValue))
	fmt.Fprintf(&b, "| Equity Value | %s | %s | %s |\n",
		money(s.Band.Lower.Result.EquityValue),
		money(s.Band.Point.Result.EquityValue),
		money(s.Band.Upper.Result.EquityValue))
	fmt.Fprintf(&b, "| Share Price | %.2f | %.2f | %.2f |\n\n",
		s.Band.Lower.Result.SharePrice,
		s.Band.Point.Result.SharePrice,
		s.Band.Upper.Result.SharePrice)

	if s.Profile.CurrentPrice > 0 {
		fmt.Fprintf(&b, "Current price %.2f, implied upside %s\n", s.Profile.CurrentPrice, pct(s.Upside()))
	}

	return b.String()
}

// ValidateMarkdown checks the document parses. Goldmark is permissive,
// so this catches only gross breakage.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}

// RenderHTML converts the markdown report to HTML with table support.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
