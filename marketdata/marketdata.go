// Package marketdata provides the live market data source for the simulator
// and the TTL price cache that insulates the accounting core from it.
package marketdata

import "context"

// Source is an external provider of quotes and fundamentals.
//
// LatestClose and DailyReturns fail with tradelab.ErrPriceUnavailable when
// the provider has no data or the call fails or times out. Fundamentals
// report absence through an ok flag; Sector falls back to "Unknown" so a
// failed lookup never blocks a purchase.
type Source interface {
	// LatestClose returns the latest close price for the ticker.
	LatestClose(ctx context.Context, ticker string) (float64, error)

	// TrailingPE returns the trailing price-to-earnings ratio, if known.
	TrailingPE(ctx context.Context, ticker string) (pe float64, ok bool)

	// Sector returns the ticker's sector classification, "Unknown" when the
	// lookup fails.
	Sector(ctx context.Context, ticker string) string

	// Beta returns the ticker's beta versus the market, if known.
	Beta(ctx context.Context, ticker string) (beta float64, ok bool)

	// DailyReturns returns the trailing one-year series of day-over-day
	// fractional price changes, oldest first.
	DailyReturns(ctx context.Context, ticker string) ([]float64, error)
}
