package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Gxlcyy/TradeLab"
)

// fakeStore holds one in-memory account per username.
type fakeStore struct {
	accounts map[string]*tradelab.Account
	saves    int
}

func (f *fakeStore) Get(username string) (*tradelab.Account, error) {
	account, ok := f.accounts[username]
	if !ok {
		return nil, fmt.Errorf("%q: %w", username, tradelab.ErrUserNotFound)
	}
	return account, nil
}

func (f *fakeStore) Update(username string, fn func(*tradelab.Account) error) error {
	account, ok := f.accounts[username]
	if !ok {
		return fmt.Errorf("%q: %w", username, tradelab.ErrUserNotFound)
	}
	if err := fn(account); err != nil {
		return err
	}
	f.saves++
	return nil
}

// fakeMarket serves fixed prices and sectors.
type fakeMarket struct {
	prices  map[string]float64
	sectors map[string]string
}

func (f *fakeMarket) Price(_ context.Context, ticker string) (tradelab.Money, error) {
	ticker = tradelab.CanonicalTicker(ticker)
	p, ok := f.prices[ticker]
	if !ok {
		return tradelab.Money{}, fmt.Errorf("%s: %w", ticker, tradelab.ErrPriceUnavailable)
	}
	return tradelab.M(p), nil
}

func (f *fakeMarket) TrailingPE(_ context.Context, _ string) (float64, bool) { return 0, false }
func (f *fakeMarket) Beta(_ context.Context, _ string) (float64, bool)      { return 0, false }
func (f *fakeMarket) DailyReturns(_ context.Context, _ string) ([]float64, error) {
	return nil, tradelab.ErrPriceUnavailable
}

func (f *fakeMarket) Sector(_ context.Context, ticker string) string {
	if s, ok := f.sectors[tradelab.CanonicalTicker(ticker)]; ok {
		return s
	}
	return tradelab.SectorUnknown
}

func TestRunBuy(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{accounts: map[string]*tradelab.Account{
		"alice": tradelab.NewAccount("alice"),
	}}
	market := &fakeMarket{
		prices:  map[string]float64{"AAPL": 150},
		sectors: map[string]string{"AAPL": "Technology"},
	}

	if err := runBuy(ctx, s, market, "alice", "aapl", 10); err != nil {
		t.Fatalf("runBuy() error = %v", err)
	}

	account := s.accounts["alice"]
	if !account.Cash.Equal(tradelab.M(8500)) {
		t.Errorf("cash = %s, want %s", account.Cash, tradelab.M(8500))
	}
	if got := account.Position("AAPL"); got != 10 {
		t.Errorf("position = %d, want 10", got)
	}
	if got := account.Holdings["AAPL"].Sector(); got != "Technology" {
		t.Errorf("sector = %q, want Technology", got)
	}
	if s.saves != 1 {
		t.Errorf("saves = %d, want 1", s.saves)
	}
}

func TestRunBuy_NoPriceAborts(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{accounts: map[string]*tradelab.Account{
		"alice": tradelab.NewAccount("alice"),
	}}
	market := &fakeMarket{}

	err := runBuy(ctx, s, market, "alice", "NOPE", 1)
	if !errors.Is(err, tradelab.ErrPriceUnavailable) {
		t.Fatalf("runBuy() error = %v, want ErrPriceUnavailable", err)
	}
	if s.saves != 0 {
		t.Error("aborted buy still saved the account")
	}
}

func TestRunBuy_InsufficientFundsWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{accounts: map[string]*tradelab.Account{
		"alice": tradelab.NewAccount("alice"),
	}}
	market := &fakeMarket{prices: map[string]float64{"AAPL": 150}}

	err := runBuy(ctx, s, market, "alice", "AAPL", 1000)
	if !errors.Is(err, tradelab.ErrInsufficientFunds) {
		t.Fatalf("runBuy() error = %v, want ErrInsufficientFunds", err)
	}
	if s.saves != 0 {
		t.Error("failed buy still saved the account")
	}
}

func TestRunSell(t *testing.T) {
	ctx := context.Background()
	account := tradelab.NewAccount("alice")
	if err := account.Buy("AAPL", 10, tradelab.M(150), "Technology"); err != nil {
		t.Fatal(err)
	}
	s := &fakeStore{accounts: map[string]*tradelab.Account{"alice": account}}
	market := &fakeMarket{prices: map[string]float64{"AAPL": 160}}

	if err := runSell(ctx, s, market, "alice", "AAPL", 4); err != nil {
		t.Fatalf("runSell() error = %v", err)
	}
	if !account.Cash.Equal(tradelab.M(9140)) {
		t.Errorf("cash = %s, want %s", account.Cash, tradelab.M(9140))
	}
	if got := account.Position("AAPL"); got != 6 {
		t.Errorf("position = %d, want 6", got)
	}
}

func TestRunSell_Failures(t *testing.T) {
	ctx := context.Background()
	account := tradelab.NewAccount("alice")
	if err := account.Buy("AAPL", 5, tradelab.M(100), "Technology"); err != nil {
		t.Fatal(err)
	}
	s := &fakeStore{accounts: map[string]*tradelab.Account{"alice": account}}
	market := &fakeMarket{prices: map[string]float64{"AAPL": 110, "GOOG": 50}}

	tests := []struct {
		name    string
		ticker  string
		qty     int64
		wantErr error
	}{
		{"no price", "NOPE", 1, tradelab.ErrPriceUnavailable},
		{"no position", "GOOG", 1, tradelab.ErrNoPosition},
		{"too many shares", "AAPL", 6, tradelab.ErrInsufficientShares},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := runSell(ctx, s, market, "alice", tc.ticker, tc.qty); !errors.Is(err, tc.wantErr) {
				t.Errorf("runSell() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
	if s.saves != 0 {
		t.Error("a failed sell saved the account")
	}
	if !account.Cash.Equal(tradelab.M(9500)) || account.Position("AAPL") != 5 {
		t.Error("a failed sell modified the account")
	}
}

func TestRunSell_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{accounts: map[string]*tradelab.Account{}}
	market := &fakeMarket{prices: map[string]float64{"AAPL": 100}}
	if err := runSell(ctx, s, market, "ghost", "AAPL", 1); !errors.Is(err, tradelab.ErrUserNotFound) {
		t.Errorf("runSell() error = %v, want ErrUserNotFound", err)
	}
}
