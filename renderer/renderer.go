// Package renderer turns report structures into markdown, ready to be
// rendered in the terminal.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Gxlcyy/TradeLab"
)

// Portfolio renders the holdings table with total value and top sector.
func Portfolio(report *tradelab.PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio — %s\n\n", report.User)

	if len(report.Rows) == 0 {
		fmt.Fprintln(&b, "You have no holdings.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Sector | Qty | Avg Cost | Price | Alloc% | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %d | $%.2f | $%.2f | %.2f%% | $%.2f |\n",
			row.Ticker, row.Sector, row.Quantity, row.AvgCost, row.Price, row.Alloc, row.Value)
	}

	fmt.Fprintf(&b, "\n**Total Value:** $%.2f\n", report.TotalValue)
	if report.TopSector != "" {
		fmt.Fprintf(&b, "\n**Top Sector:** %s (%.2f%%)\n", report.TopSector, report.TopSectorPct)
	}
	return b.String()
}

// Summary renders the main screen header figures.
func Summary(report *tradelab.SummaryReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**User:** %s  \n", report.User)
	fmt.Fprintf(&b, "**Cash Balance:** %s  \n", report.Cash)
	fmt.Fprintf(&b, "**Portfolio Value:** %s  \n", report.MarketValue)
	fmt.Fprintf(&b, "**Unrealized P/L:** %s\n", report.PnL.SignedString())
	return b.String()
}

// Valuation renders the P/E comparison report.
func Valuation(report *tradelab.ValuationReport) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Valuation")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "**Weighted Avg Portfolio P/E:** %.2f  \n", report.WeightedPE)
	fmt.Fprintf(&b, "**S&P 500 P/E:** %.0f\n\n", report.BenchmarkPE)

	if !report.HasPE {
		fmt.Fprintln(&b, "Insufficient data for DCF calculation.")
		return b.String()
	}

	relation := "higher"
	if report.WeightedPE < report.BenchmarkPE {
		relation = "lower"
	}
	fmt.Fprintf(&b, "Portfolio P/E is %s than the S&P 500.\n\n", relation)
	fmt.Fprintf(&b, "**Simple DCF Upside vs S&P 500:** %.2f%%\n", report.DCFUpside)
	return b.String()
}

// Risk renders the risk metrics report.
func Risk(report *tradelab.RiskReport) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Risk")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "**Portfolio Beta (weighted):** %.2f  \n", report.WeightedBeta)
	fmt.Fprintf(&b, "**Portfolio Volatility (1y std):** %.4f  \n", report.Volatility)
	fmt.Fprintf(&b, "**Diversification Score:** %.2f (higher is better)\n", report.DiversificationScore)

	if len(report.Sectors) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Sector | Alloc% |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, s := range report.Sectors {
			fmt.Fprintf(&b, "| %s | %.2f%% |\n", s.Sector, s.Pct)
		}
	}
	return b.String()
}

// Insights renders the insights report.
func Insights(report *tradelab.InsightsReport) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Insights")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "**Total Portfolio Value:** $%.2f  \n", report.TotalValue)
	if len(report.TopHoldings) > 0 {
		fmt.Fprintf(&b, "**Top Holdings:** %s  \n", strings.Join(report.TopHoldings, ", "))
	}
	fmt.Fprintf(&b, "**Weighted Avg P/E:** %.2f\n", report.WeightedPE)

	if len(report.Sectors) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Sector | Alloc% |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, s := range report.Sectors {
			fmt.Fprintf(&b, "| %s | %.2f%% |\n", s.Sector, s.Pct)
		}
	}

	fmt.Fprintln(&b)
	for _, insight := range report.Insights {
		if insight.Warning {
			fmt.Fprintf(&b, "- ⚠️ %s\n", insight.Message)
		} else {
			fmt.Fprintf(&b, "- %s\n", insight.Message)
		}
	}
	return b.String()
}

// Receipt renders the sell confirmation with the per-lot realized P/L.
func Receipt(receipt *tradelab.SellReceipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sold %d shares of %s at $%.2f per share ($%.2f).\n\n",
		receipt.Quantity, receipt.Ticker, receipt.Price, receipt.Proceeds)

	fmt.Fprintln(&b, "| Shares | Bought At | P/L per share |")
	fmt.Fprintln(&b, "|---:|---:|---:|")
	for _, line := range receipt.Lines {
		fmt.Fprintf(&b, "| %d | $%.2f | %+.2f |\n", line.Quantity, line.UnitCost, line.PerSharePL)
	}
	return b.String()
}
