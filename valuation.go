package tradelab

import (
	"context"
	"math"
)

// BenchmarkPE is the S&P 500 trailing P/E used as the valuation benchmark.
const BenchmarkPE = 22.0

// Quoter is the market data contract the valuation engine reads from. It is
// satisfied by marketdata.Cache, and by fakes in tests.
//
// Price fails with ErrPriceUnavailable when the source has no data; the
// fundamentals return an ok flag instead, absence being an ordinary outcome.
type Quoter interface {
	Price(ctx context.Context, ticker string) (Money, error)
	TrailingPE(ctx context.Context, ticker string) (pe float64, ok bool)
	Beta(ctx context.Context, ticker string) (beta float64, ok bool)
	DailyReturns(ctx context.Context, ticker string) ([]float64, error)
}

// Analytics computes derived portfolio metrics from an account and a market
// data quoter. Every method is a stateless read: the account is never
// mutated, and a price failure for one ticker excludes that ticker from the
// aggregates instead of aborting the computation.
type Analytics struct {
	Account *Account
	Quotes  Quoter
}

// NewAnalytics pairs an account with its market data source.
func NewAnalytics(account *Account, quotes Quoter) *Analytics {
	return &Analytics{Account: account, Quotes: quotes}
}

// MarketValue is the sum over tickers of current price times position size.
// Tickers without a price are skipped.
func (an *Analytics) MarketValue(ctx context.Context) Money {
	var total Money
	for ticker, holding := range an.Account.Holdings {
		qty := holding.TotalQuantity()
		if qty == 0 {
			continue
		}
		price, err := an.Quotes.Price(ctx, ticker)
		if err != nil {
			continue
		}
		total = total.Add(price.MulQty(qty))
	}
	return total
}

// UnrealizedPnL is the sum over tickers of (current price - average cost)
// times position size. Tickers without a price are skipped.
func (an *Analytics) UnrealizedPnL(ctx context.Context) Money {
	var total Money
	for ticker, holding := range an.Account.Holdings {
		qty := holding.TotalQuantity()
		if qty == 0 {
			continue
		}
		price, err := an.Quotes.Price(ctx, ticker)
		if err != nil {
			continue
		}
		total = total.Add(price.Sub(holding.AverageCost()).MulQty(qty))
	}
	return total
}

// HoldingValues returns the current market value per held ticker, skipping
// tickers without a price.
func (an *Analytics) HoldingValues(ctx context.Context) map[string]float64 {
	values := make(map[string]float64, len(an.Account.Holdings))
	for ticker, holding := range an.Account.Holdings {
		qty := holding.TotalQuantity()
		if qty == 0 {
			continue
		}
		price, err := an.Quotes.Price(ctx, ticker)
		if err != nil {
			continue
		}
		values[ticker] = price.MulQty(qty).AsFloat()
	}
	return values
}

// WeightedPE is the position-value-weighted average trailing P/E over the
// tickers that have a positive P/E available. It returns 0 when no position
// carries a usable P/E, which reports render as "insufficient data".
func (an *Analytics) WeightedPE(ctx context.Context) float64 {
	var peSum, weightSum float64
	for ticker, value := range an.HoldingValues(ctx) {
		pe, ok := an.Quotes.TrailingPE(ctx, ticker)
		if !ok || pe <= 0 {
			continue
		}
		peSum += pe * value
		weightSum += value
	}
	if weightSum == 0 {
		return 0
	}
	return peSum / weightSum
}

// DCFUpside is the crude upside heuristic (benchmark/avgPE - 1) * 100,
// defined only for a positive average P/E.
func DCFUpside(avgPE float64) (upside float64, ok bool) {
	if avgPE <= 0 {
		return 0, false
	}
	return (BenchmarkPE/avgPE - 1) * 100, true
}

// SectorValues groups current holding values by the sector recorded on each
// ticker's first lot.
func (an *Analytics) SectorValues(ctx context.Context) map[string]float64 {
	sectors := make(map[string]float64)
	for ticker, value := range an.HoldingValues(ctx) {
		sectors[an.Account.Holdings[ticker].Sector()] += value
	}
	return sectors
}

// SectorAllocation returns each sector's share of the total market value,
// in percent.
func (an *Analytics) SectorAllocation(ctx context.Context) map[string]float64 {
	sectors := an.SectorValues(ctx)
	var total float64
	for _, v := range sectors {
		total += v
	}
	alloc := make(map[string]float64, len(sectors))
	if total == 0 {
		return alloc
	}
	for sector, v := range sectors {
		alloc[sector] = v / total * 100
	}
	return alloc
}

// WeightedBeta is the position-value-weighted average beta. A ticker whose
// beta is unavailable counts as beta 1; an empty portfolio is the neutral
// 1.0.
func (an *Analytics) WeightedBeta(ctx context.Context) float64 {
	var betaSum, weightSum float64
	for ticker, value := range an.HoldingValues(ctx) {
		beta, ok := an.Quotes.Beta(ctx, ticker)
		if !ok {
			beta = 1
		}
		betaSum += beta * value
		weightSum += value
	}
	if weightSum == 0 {
		return 1.0
	}
	return betaSum / weightSum
}

// Volatility pools the trailing one-year daily return series of every held
// ticker into one combined sample and returns its population standard
// deviation.
//
// Pooling ignores cross-ticker correlation and position weights; it is a
// deliberate simplification rather than a true portfolio volatility.
func (an *Analytics) Volatility(ctx context.Context) float64 {
	var sample []float64
	for ticker := range an.Account.Holdings {
		returns, err := an.Quotes.DailyReturns(ctx, ticker)
		if err != nil {
			continue
		}
		sample = append(sample, returns...)
	}
	return populationStdDev(sample)
}

// DiversificationScore is (1 - HHI) * 100 over the sector weight fractions,
// where HHI is the Herfindahl index sum(p^2). A single-sector portfolio
// scores 0; the score approaches 100 as equal-weighted sectors multiply.
// An empty portfolio scores 0.
func (an *Analytics) DiversificationScore(ctx context.Context) float64 {
	sectors := an.SectorValues(ctx)
	var total float64
	for _, v := range sectors {
		total += v
	}
	if total == 0 {
		return 0
	}
	var hhi float64
	for _, v := range sectors {
		p := v / total
		hhi += p * p
	}
	return (1 - hhi) * 100
}

func populationStdDev(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	var mean float64
	for _, x := range sample {
		mean += x
	}
	mean /= float64(len(sample))
	var sq float64
	for _, x := range sample {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(sample)))
}
