package tradelab

import (
	"context"
	"math"
	"sort"
)

// This file builds the report structures consumed by the renderer package.
// Reports carry plain float64 values rounded for display; the exact decimal
// arithmetic stays inside the account.

// PortfolioRow is one line of the holdings table.
type PortfolioRow struct {
	Ticker   string
	Sector   string
	Quantity int64
	AvgCost  float64
	Price    float64
	Value    float64
	Alloc    float64 // percent of total market value
}

// PortfolioReport is the holdings overview: one row per ticker plus the
// total value and the dominant sector.
type PortfolioReport struct {
	User         string
	Rows         []PortfolioRow
	TotalValue   float64
	TopSector    string
	TopSectorPct float64
}

// SummaryReport feeds the main screen header.
type SummaryReport struct {
	User        string
	Cash        Money
	MarketValue Money
	PnL         Money
}

// ValuationReport compares the portfolio P/E against the benchmark.
type ValuationReport struct {
	WeightedPE  float64
	BenchmarkPE float64
	DCFUpside   float64
	HasPE       bool
}

// SectorWeight is one sector's share of the portfolio, for the risk report.
type SectorWeight struct {
	Sector string
	Pct    float64
}

// RiskReport aggregates the portfolio risk metrics.
type RiskReport struct {
	WeightedBeta         float64
	Volatility           float64
	DiversificationScore float64
	Sectors              []SectorWeight
}

// InsightsReport carries the context shown alongside the insight messages.
type InsightsReport struct {
	TotalValue  float64
	Sectors     []SectorWeight
	TopHoldings []string
	WeightedPE  float64
	Insights    []Insight
}

// ReceiptLine reports the realized gain of one consumed lot.
type ReceiptLine struct {
	Quantity   int64
	UnitCost   float64
	PerSharePL float64
}

// SellReceipt reports a completed sale with its per-lot breakdown.
type SellReceipt struct {
	Ticker   string
	Quantity int64
	Price    float64
	Proceeds float64
	Lines    []ReceiptLine
}

// NewPortfolioReport builds the holdings table. Tickers without a price
// appear with a zero price and value, so the table always lists every
// holding.
func (an *Analytics) NewPortfolioReport(ctx context.Context) *PortfolioReport {
	report := &PortfolioReport{User: an.Account.Name}

	for _, ticker := range an.Account.Tickers() {
		holding := an.Account.Holdings[ticker]
		row := PortfolioRow{
			Ticker:   ticker,
			Sector:   holding.Sector(),
			Quantity: holding.TotalQuantity(),
			AvgCost:  round2(holding.AverageCost().AsFloat()),
		}
		if price, err := an.Quotes.Price(ctx, ticker); err == nil {
			row.Price = round2(price.AsFloat())
			row.Value = round2(price.MulQty(row.Quantity).AsFloat())
		}
		report.TotalValue += row.Value
		report.Rows = append(report.Rows, row)
	}

	if report.TotalValue > 0 {
		for i := range report.Rows {
			report.Rows[i].Alloc = round2(report.Rows[i].Value / report.TotalValue * 100)
		}
	}
	report.TotalValue = round2(report.TotalValue)

	if sector, pct, ok := topSector(an.SectorAllocation(ctx)); ok {
		report.TopSector = sector
		report.TopSectorPct = round2(pct)
	}
	return report
}

// NewSummaryReport builds the main screen header figures.
func (an *Analytics) NewSummaryReport(ctx context.Context) *SummaryReport {
	return &SummaryReport{
		User:        an.Account.Name,
		Cash:        an.Account.Cash,
		MarketValue: an.MarketValue(ctx).Round(),
		PnL:         an.UnrealizedPnL(ctx).Round(),
	}
}

// NewValuationReport builds the P/E comparison report.
func (an *Analytics) NewValuationReport(ctx context.Context) *ValuationReport {
	report := &ValuationReport{
		WeightedPE:  round2(an.WeightedPE(ctx)),
		BenchmarkPE: BenchmarkPE,
	}
	if upside, ok := DCFUpside(report.WeightedPE); ok {
		report.DCFUpside = round2(upside)
		report.HasPE = true
	}
	return report
}

// NewRiskReport builds the risk metrics report.
func (an *Analytics) NewRiskReport(ctx context.Context) *RiskReport {
	return &RiskReport{
		WeightedBeta:         round2(an.WeightedBeta(ctx)),
		Volatility:           round4(an.Volatility(ctx)),
		DiversificationScore: round2(an.DiversificationScore(ctx)),
		Sectors:              sectorWeights(an.SectorAllocation(ctx)),
	}
}

// NewInsightsReport builds the insights report.
func (an *Analytics) NewInsightsReport(ctx context.Context) *InsightsReport {
	values := an.HoldingValues(ctx)
	var total float64
	for _, v := range values {
		total += v
	}
	top := TopHoldings(values)
	if len(top) > 3 {
		top = top[:3]
	}
	return &InsightsReport{
		TotalValue:  round2(total),
		Sectors:     sectorWeights(an.SectorAllocation(ctx)),
		TopHoldings: top,
		WeightedPE:  round2(an.WeightedPE(ctx)),
		Insights:    an.Insights(ctx),
	}
}

// NewSellReceipt builds the receipt for a completed sale.
func NewSellReceipt(ticker string, qty int64, price Money, sold []LotSale) *SellReceipt {
	receipt := &SellReceipt{
		Ticker:   CanonicalTicker(ticker),
		Quantity: qty,
		Price:    round2(price.AsFloat()),
		Proceeds: round2(price.MulQty(qty).AsFloat()),
	}
	for _, sale := range sold {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Quantity:   sale.Quantity,
			UnitCost:   round2(sale.UnitCost.AsFloat()),
			PerSharePL: round2(price.Sub(sale.UnitCost).AsFloat()),
		})
	}
	return receipt
}

func sectorWeights(alloc map[string]float64) []SectorWeight {
	weights := make([]SectorWeight, 0, len(alloc))
	for sector, pct := range alloc {
		weights = append(weights, SectorWeight{Sector: sector, Pct: round2(pct)})
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Pct != weights[j].Pct {
			return weights[i].Pct > weights[j].Pct
		}
		return weights[i].Sector < weights[j].Sector
	})
	return weights
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
