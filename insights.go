package tradelab

import (
	"context"
	"fmt"
	"sort"
)

// concentration thresholds for the insight rules.
const (
	sectorConcentrationLimit = 50.0 // percent of total value in one sector
	topHoldingsShareLimit    = 0.5  // fraction of total value in the top two
)

// Insight is one rule-based observation about the portfolio.
type Insight struct {
	Warning bool
	Message string
}

// Insights evaluates the independent warning rules against the current
// portfolio. Every applicable rule fires, in list order; when none does, a
// single "balanced" message is returned.
func (an *Analytics) Insights(ctx context.Context) []Insight {
	var insights []Insight

	alloc := an.SectorAllocation(ctx)
	if sector, pct, ok := topSector(alloc); ok && pct > sectorConcentrationLimit {
		insights = append(insights, Insight{
			Warning: true,
			Message: fmt.Sprintf("High concentration in %s sector (%.2f%%). Consider diversifying.", sector, pct),
		})
	}

	values := an.HoldingValues(ctx)
	top := TopHoldings(values)
	if len(top) >= 2 {
		var total float64
		for _, v := range values {
			total += v
		}
		top2 := values[top[0]] + values[top[1]]
		if total > 0 && top2/total > topHoldingsShareLimit {
			insights = append(insights, Insight{
				Warning: true,
				Message: fmt.Sprintf("Top 2 holdings (%s, %s) make up more than 50%% of your portfolio.", top[0], top[1]),
			})
		}
	}

	if avgPE := an.WeightedPE(ctx); avgPE > BenchmarkPE {
		insights = append(insights, Insight{
			Warning: true,
			Message: fmt.Sprintf("Portfolio average P/E (%.2f) is higher than S&P 500 (%.0f). Possible overvaluation.", avgPE, BenchmarkPE),
		})
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{Message: "Portfolio looks balanced."})
	}
	return insights
}

// TopHoldings returns the tickers ordered by market value, largest first.
// Ties break alphabetically to keep reports stable.
func TopHoldings(values map[string]float64) []string {
	tickers := make([]string, 0, len(values))
	for t := range values {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		if values[tickers[i]] != values[tickers[j]] {
			return values[tickers[i]] > values[tickers[j]]
		}
		return tickers[i] < tickers[j]
	})
	return tickers
}

// topSector returns the sector with the largest allocation percentage.
func topSector(alloc map[string]float64) (sector string, pct float64, ok bool) {
	for s, p := range alloc {
		if !ok || p > pct || (p == pct && s < sector) {
			sector, pct, ok = s, p, true
		}
	}
	return sector, pct, ok
}
