package tradelab

import (
	"context"
	"fmt"
	"testing"
)

func usd(v float64) Money { return M(v) }

// fakeQuotes is an in-memory Quoter for the analytics tests.
type fakeQuotes struct {
	prices  map[string]float64
	pes     map[string]float64
	betas   map[string]float64
	returns map[string][]float64
}

func (f *fakeQuotes) Price(_ context.Context, ticker string) (Money, error) {
	p, ok := f.prices[ticker]
	if !ok {
		return Money{}, fmt.Errorf("%s: %w", ticker, ErrPriceUnavailable)
	}
	return M(p), nil
}

func (f *fakeQuotes) TrailingPE(_ context.Context, ticker string) (float64, bool) {
	pe, ok := f.pes[ticker]
	return pe, ok
}

func (f *fakeQuotes) Beta(_ context.Context, ticker string) (float64, bool) {
	b, ok := f.betas[ticker]
	return b, ok
}

func (f *fakeQuotes) DailyReturns(_ context.Context, ticker string) ([]float64, error) {
	r, ok := f.returns[ticker]
	if !ok {
		return nil, fmt.Errorf("%s: no history: %w", ticker, ErrPriceUnavailable)
	}
	return r, nil
}

// mustBuy fails the test on a buy that should succeed.
func mustBuy(t *testing.T, a *Account, ticker string, qty int64, price Money, sector string) {
	t.Helper()
	if err := a.Buy(ticker, qty, price, sector); err != nil {
		t.Fatalf("Buy(%s, %d, %s) error = %v", ticker, qty, price, err)
	}
}

// approx fails unless got is within 1e-9 of want.
func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	diff := got - want
	if diff < -1e-9 || diff > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
