package tradelab

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestAccount_BuySellScenario(t *testing.T) {
	a := NewAccount("alice")

	mustBuy(t, a, "AAPL", 10, usd(150), "Technology")
	if !a.Cash.Equal(usd(8500)) {
		t.Errorf("cash after buy = %s, want %s", a.Cash, usd(8500))
	}
	if got := a.Position("AAPL"); got != 10 {
		t.Errorf("position after buy = %d, want 10", got)
	}

	sold, err := a.Sell("AAPL", 4, usd(160))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if !a.Cash.Equal(usd(9140)) {
		t.Errorf("cash after sell = %s, want %s", a.Cash, usd(9140))
	}
	if got := a.Position("AAPL"); got != 6 {
		t.Errorf("position after sell = %d, want 6", got)
	}
	if !salesEqual(sold, []LotSale{{Quantity: 4, UnitCost: usd(150)}}) {
		t.Errorf("sold breakdown = %v", sold)
	}
}

func TestAccount_SellAllRemovesTicker(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "MSFT", 3, usd(100), "Technology")
	if _, err := a.Sell("msft", 3, usd(100)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if _, ok := a.Holdings["MSFT"]; ok {
		t.Error("ticker still present after selling the whole position")
	}
	if !a.Cash.Equal(StartingCash) {
		t.Errorf("cash = %s, want the exact starting balance %s", a.Cash, StartingCash)
	}
}

func TestAccount_RoundTripIsExact(t *testing.T) {
	// A price with no exact binary representation must still round-trip.
	a := NewAccount("alice")
	mustBuy(t, a, "XOM", 7, usd(3.33), "Energy")
	if _, err := a.Sell("XOM", 7, usd(3.33)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if !a.Cash.Equal(StartingCash) {
		t.Errorf("cash = %s, want the exact starting balance %s", a.Cash, StartingCash)
	}
}

func TestAccount_BuyFailures(t *testing.T) {
	tests := []struct {
		name    string
		qty     int64
		price   Money
		wantErr error
	}{
		{"zero quantity", 0, usd(10), ErrInvalidQuantity},
		{"negative quantity", -2, usd(10), ErrInvalidQuantity},
		{"insufficient funds", 11, usd(1000), ErrInsufficientFunds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAccount("alice")
			err := a.Buy("AAPL", tc.qty, tc.price, "Technology")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Buy() error = %v, want %v", err, tc.wantErr)
			}
			if !a.Cash.Equal(StartingCash) || len(a.Holdings) != 0 {
				t.Error("failed buy modified the account")
			}
		})
	}
}

func TestAccount_BuySpendsExactlyTheBalance(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "VOO", 10, usd(1000), "Index")
	if !a.Cash.IsZero() {
		t.Errorf("cash = %s, want zero", a.Cash)
	}
}

func TestAccount_SellFailures(t *testing.T) {
	base := func() *Account {
		a := NewAccount("alice")
		mustBuy(t, a, "AAPL", 5, usd(100), "Technology")
		return a
	}
	tests := []struct {
		name    string
		ticker  string
		qty     int64
		wantErr error
	}{
		{"no position", "GOOG", 1, ErrNoPosition},
		{"zero quantity", "AAPL", 0, ErrInvalidQuantity},
		{"negative quantity", "AAPL", -1, ErrInvalidQuantity},
		{"more than held", "AAPL", 6, ErrInsufficientShares},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := base()
			_, err := a.Sell(tc.ticker, tc.qty, usd(110))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Sell() error = %v, want %v", err, tc.wantErr)
			}
			if !a.Cash.Equal(usd(9500)) || a.Position("AAPL") != 5 {
				t.Error("failed sell modified the account")
			}
		})
	}
}

func TestAccount_RepeatBuysKeepSeparateLots(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "AAPL", 2, usd(10), "Technology")
	mustBuy(t, a, "aapl", 3, usd(12), "Technology")
	if got := len(a.Holdings["AAPL"]); got != 2 {
		t.Fatalf("lots = %d, want 2", got)
	}
	if got := a.Position("AAPL"); got != 5 {
		t.Errorf("position = %d, want 5", got)
	}
}

func TestAccount_TickersSorted(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "MSFT", 1, usd(1), "Technology")
	mustBuy(t, a, "AAPL", 1, usd(1), "Technology")
	mustBuy(t, a, "JNJ", 1, usd(1), "Healthcare")
	want := []string{"AAPL", "JNJ", "MSFT"}
	if got := a.Tickers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestCanonicalTicker(t *testing.T) {
	tests := []struct{ in, want string }{
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"BRK-B", "BRK-B"},
	}
	for _, tc := range tests {
		if got := CanonicalTicker(tc.in); got != tc.want {
			t.Errorf("CanonicalTicker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAccount_Reset(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "AAPL", 10, usd(150), "Technology")
	a.Reset()
	if !a.Cash.Equal(StartingCash) || len(a.Holdings) != 0 {
		t.Errorf("after Reset cash = %s holdings = %v", a.Cash, a.Holdings)
	}
	if a.Name != "alice" {
		t.Errorf("Reset changed the name to %q", a.Name)
	}
}

func TestAccount_JSONRoundTrip(t *testing.T) {
	a := NewAccount("alice")
	mustBuy(t, a, "AAPL", 10, usd(150.25), "Technology")
	mustBuy(t, a, "JNJ", 5, usd(99.99), "Healthcare")

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := DecodeAccount("alice", raw)
	if err != nil {
		t.Fatalf("DecodeAccount() error = %v", err)
	}

	if got.Name != a.Name || !got.Cash.Equal(a.Cash) {
		t.Errorf("round trip header = %q %s, want %q %s", got.Name, got.Cash, a.Name, a.Cash)
	}
	for ticker, holding := range a.Holdings {
		if !lotsEqual(got.Holdings[ticker], holding) {
			t.Errorf("round trip holding %s = %v, want %v", ticker, got.Holdings[ticker], holding)
		}
	}
}

func TestDecodeAccount_Repairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		// expectations on the repaired account
		check func(t *testing.T, a *Account)
	}{
		{
			name: "unreadable record resets to defaults",
			raw:  `"not an object"`,
			check: func(t *testing.T, a *Account) {
				if !a.Cash.Equal(StartingCash) || len(a.Holdings) != 0 {
					t.Errorf("got cash %s holdings %v, want defaults", a.Cash, a.Holdings)
				}
			},
		},
		{
			name: "negative cash reset to the starting balance",
			raw:  `{"name":"alice","cash_balance":-50,"holdings":{}}`,
			check: func(t *testing.T, a *Account) {
				if !a.Cash.Equal(StartingCash) {
					t.Errorf("cash = %s, want %s", a.Cash, StartingCash)
				}
			},
		},
		{
			name: "non-positive lot dropped",
			raw:  `{"name":"alice","cash_balance":5000,"holdings":{"AAPL":[{"qty":0,"price":10,"sector":"Technology"},{"qty":2,"price":12,"sector":"Technology"}]}}`,
			check: func(t *testing.T, a *Account) {
				if got := a.Position("AAPL"); got != 2 {
					t.Errorf("position = %d, want 2", got)
				}
			},
		},
		{
			name: "ticker with no valid lots removed",
			raw:  `{"name":"alice","cash_balance":5000,"holdings":{"AAPL":[{"qty":-3,"price":10,"sector":"Technology"}]}}`,
			check: func(t *testing.T, a *Account) {
				if _, ok := a.Holdings["AAPL"]; ok {
					t.Error("empty ticker survived the repair")
				}
			},
		},
		{
			name: "blank sector defaults to Unknown",
			raw:  `{"name":"alice","cash_balance":5000,"holdings":{"AAPL":[{"qty":1,"price":10,"sector":""}]}}`,
			check: func(t *testing.T, a *Account) {
				if got := a.Holdings["AAPL"].Sector(); got != SectorUnknown {
					t.Errorf("sector = %q, want %q", got, SectorUnknown)
				}
			},
		},
		{
			name: "empty record",
			raw:  ``,
			check: func(t *testing.T, a *Account) {
				if !a.Cash.Equal(StartingCash) {
					t.Errorf("cash = %s, want %s", a.Cash, StartingCash)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := DecodeAccount("alice", json.RawMessage(tc.raw))
			if !errors.Is(err, ErrCorruptState) {
				t.Fatalf("DecodeAccount() error = %v, want ErrCorruptState", err)
			}
			if a == nil {
				t.Fatal("DecodeAccount() returned a nil account")
			}
			tc.check(t, a)
		})
	}
}

func TestDecodeAccount_Valid(t *testing.T) {
	raw := `{"name":"bob","cash_balance":8500,"holdings":{"aapl":[{"qty":10,"price":150,"sector":"Technology"}]}}`
	a, err := DecodeAccount("bob", json.RawMessage(raw))
	if err != nil {
		t.Fatalf("DecodeAccount() error = %v", err)
	}
	if !a.Cash.Equal(usd(8500)) {
		t.Errorf("cash = %s, want %s", a.Cash, usd(8500))
	}
	// keys are canonicalized on load
	if got := a.Position("AAPL"); got != 10 {
		t.Errorf("position = %d, want 10", got)
	}
}
