package marketdata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Gxlcyy/TradeLab"
)

// requestTimeout bounds every Yahoo call so a slow provider degrades into
// ErrPriceUnavailable instead of hanging the terminal.
const requestTimeout = 8 * time.Second

// YahooSource fetches quotes and fundamentals from the public Yahoo Finance
// chart and quoteSummary endpoints.
type YahooSource struct {
	client   *http.Client
	chartURL string
	fundURL  string
}

// NewYahooSource returns a source backed by the public Yahoo endpoints.
func NewYahooSource() *YahooSource {
	return &YahooSource{
		client:   &http.Client{Timeout: requestTimeout},
		chartURL: "https://query2.finance.yahoo.com/v8/finance/chart",
		fundURL:  "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
	}
}

// chart fetches the chart endpoint for a ticker over the given range.
func (s *YahooSource) chart(ctx context.Context, ticker, rng string) (any, error) {
	addr := fmt.Sprintf("%s/%s?interval=1d&range=%s", s.chartURL, url.PathEscape(ticker), rng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := jwget(s.client, req, &jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

// LatestClose returns the most recent close for the ticker. It prefers the
// regular market price from the chart metadata and falls back to the last
// close of the daily series.
func (s *YahooSource) LatestClose(ctx context.Context, ticker string) (float64, error) {
	jobj, err := s.chart(ctx, ticker, "1d")
	if err != nil {
		return 0, fmt.Errorf("no price data for %s: %w (%v)", ticker, tradelab.ErrPriceUnavailable, err)
	}

	if price, err := jpathFloat(jobj, "$.chart.result[0].meta.regularMarketPrice"); err == nil && price > 0 {
		return price, nil
	}

	closes, err := chartCloses(jobj)
	if err != nil || len(closes) == 0 {
		return 0, fmt.Errorf("no price data for %s: %w", ticker, tradelab.ErrPriceUnavailable)
	}
	return closes[len(closes)-1], nil
}

// DailyReturns returns the trailing one-year day-over-day fractional price
// changes, oldest first.
func (s *YahooSource) DailyReturns(ctx context.Context, ticker string) ([]float64, error) {
	jobj, err := s.chart(ctx, ticker, "1y")
	if err != nil {
		return nil, fmt.Errorf("no history for %s: %w (%v)", ticker, tradelab.ErrPriceUnavailable, err)
	}
	closes, err := chartCloses(jobj)
	if err != nil || len(closes) < 2 {
		return nil, fmt.Errorf("no history for %s: %w", ticker, tradelab.ErrPriceUnavailable)
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns, nil
}

// TrailingPE returns the trailing P/E ratio, if Yahoo publishes one.
func (s *YahooSource) TrailingPE(ctx context.Context, ticker string) (float64, bool) {
	jobj, err := s.quoteSummary(ctx, ticker)
	if err != nil {
		return 0, false
	}
	pe, err := jpathFloat(jobj, "$.quoteSummary.result[0].summaryDetail.trailingPE.raw")
	if err != nil || pe <= 0 {
		return 0, false
	}
	return pe, true
}

// Beta returns the ticker's beta, if Yahoo publishes one.
func (s *YahooSource) Beta(ctx context.Context, ticker string) (float64, bool) {
	jobj, err := s.quoteSummary(ctx, ticker)
	if err != nil {
		return 0, false
	}
	beta, err := jpathFloat(jobj, "$.quoteSummary.result[0].summaryDetail.beta.raw")
	if err != nil {
		return 0, false
	}
	return beta, true
}

// Sector returns the ticker's sector, "Unknown" when the lookup fails so
// that a missing profile never blocks a purchase.
func (s *YahooSource) Sector(ctx context.Context, ticker string) string {
	jobj, err := s.quoteSummary(ctx, ticker)
	if err != nil {
		log.Printf("sector lookup for %s failed (ignored): %v", ticker, err)
		return tradelab.SectorUnknown
	}
	sector, err := jpathString(jobj, "$.quoteSummary.result[0].summaryProfile.sector")
	if err != nil || sector == "" {
		return tradelab.SectorUnknown
	}
	return sector
}

func (s *YahooSource) quoteSummary(ctx context.Context, ticker string) (any, error) {
	addr := fmt.Sprintf("%s/%s?modules=summaryProfile%%2CsummaryDetail", s.fundURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := jwget(s.client, req, &jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

// chartCloses extracts the non-null close series from a chart response.
func chartCloses(jobj any) ([]float64, error) {
	jval, err := jpath(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, err
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("close series is not a list: %v", jval)
	}
	closes := make([]float64, 0, len(jlist))
	for _, jclose := range jlist {
		// null entries mark days without a trade
		if v, ok := jclose.(float64); ok {
			closes = append(closes, v)
		}
	}
	return closes, nil
}

var _ Source = (*YahooSource)(nil)
