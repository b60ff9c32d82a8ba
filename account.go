package tradelab

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// StartingCash is the simulated balance every account begins with.
var StartingCash = M(10000)

// Account is the simulated portfolio of one user: a cash balance plus the
// open purchase lots per ticker. It is mutated exclusively by Buy, Sell and
// Reset, and each mutation either fully commits or leaves the account
// untouched.
//
// Invariants: every ticker key maps to a non-empty holding, no lot has a
// zero or negative quantity, and the cash balance never goes negative.
type Account struct {
	Name     string             `json:"name"`
	Cash     Money              `json:"cash_balance"`
	Holdings map[string]Holding `json:"holdings"`
}

// NewAccount returns a fresh account in the creation state.
func NewAccount(name string) *Account {
	return &Account{
		Name:     name,
		Cash:     StartingCash,
		Holdings: make(map[string]Holding),
	}
}

// Reset returns the account to its creation state. Accounts are never
// deleted, only reset.
func (a *Account) Reset() {
	a.Cash = StartingCash
	a.Holdings = make(map[string]Holding)
}

// CanonicalTicker normalizes a ticker symbol to its canonical form.
func CanonicalTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Position returns the total open quantity for a ticker, zero if not held.
func (a *Account) Position(ticker string) int64 {
	return a.Holdings[CanonicalTicker(ticker)].TotalQuantity()
}

// Tickers returns the held ticker symbols, sorted.
func (a *Account) Tickers() []string {
	tickers := make([]string, 0, len(a.Holdings))
	for t := range a.Holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// Buy purchases qty shares of ticker at price per share, recording them as a
// new lot. Repeat purchases of the same ticker append a lot rather than
// merging, preserving FIFO boundaries.
//
// It fails with ErrInvalidQuantity or ErrInsufficientFunds, in which case
// the account is unchanged.
func (a *Account) Buy(ticker string, qty int64, price Money, sector string) error {
	ticker = CanonicalTicker(ticker)
	if qty <= 0 {
		return fmt.Errorf("buy %d %s: %w", qty, ticker, ErrInvalidQuantity)
	}
	cost := price.MulQty(qty)
	if cost.GreaterThan(a.Cash) {
		return fmt.Errorf("buy %d %s costs %s with %s available: %w",
			qty, ticker, cost, a.Cash, ErrInsufficientFunds)
	}
	if sector == "" {
		sector = SectorUnknown
	}

	a.Cash = a.Cash.Sub(cost)
	if a.Holdings == nil {
		a.Holdings = make(map[string]Holding)
	}
	a.Holdings[ticker] = append(a.Holdings[ticker], Lot{
		Quantity: qty,
		UnitCost: price,
		Sector:   sector,
	})
	return nil
}

// Sell disposes of qty shares of ticker at the current price per share,
// consuming the oldest lots first. Proceeds are credited at the uniform sale
// price; the returned breakdown carries each consumed lot's original unit
// cost so the caller can report realized gain per lot.
//
// It fails with ErrNoPosition, ErrInvalidQuantity or ErrInsufficientShares,
// in which case the account is unchanged.
func (a *Account) Sell(ticker string, qty int64, price Money) ([]LotSale, error) {
	ticker = CanonicalTicker(ticker)
	holding, ok := a.Holdings[ticker]
	if !ok || holding.TotalQuantity() == 0 {
		return nil, fmt.Errorf("sell %s: %w", ticker, ErrNoPosition)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("sell %d %s: %w", qty, ticker, ErrInvalidQuantity)
	}
	if held := holding.TotalQuantity(); qty > held {
		return nil, fmt.Errorf("sell %d %s with only %d held: %w",
			qty, ticker, held, ErrInsufficientShares)
	}

	remaining, sold := holding.sell(qty)
	if len(remaining) == 0 {
		delete(a.Holdings, ticker)
	} else {
		a.Holdings[ticker] = remaining
	}
	a.Cash = a.Cash.Add(price.MulQty(qty))
	return sold, nil
}

// DecodeAccount builds a validated Account from its persisted JSON record.
//
// Malformed input is repaired rather than rejected: an unreadable record
// falls back to the creation defaults, lots with non-positive quantities are
// dropped, and ticker keys left without lots are removed. When any repair
// was needed the returned error wraps ErrCorruptState; the account is still
// usable.
func DecodeAccount(username string, raw json.RawMessage) (*Account, error) {
	account := NewAccount(username)
	if len(raw) == 0 {
		return account, fmt.Errorf("empty record for %q: %w", username, ErrCorruptState)
	}

	var repairs []string
	var jaccount struct {
		Name     *string            `json:"name"`
		Cash     *Money             `json:"cash_balance"`
		Holdings map[string][]json.RawMessage `json:"holdings"`
	}
	if err := json.Unmarshal(raw, &jaccount); err != nil {
		return account, fmt.Errorf("unreadable record for %q, reset to defaults: %w", username, ErrCorruptState)
	}

	if jaccount.Name != nil && *jaccount.Name != "" {
		account.Name = *jaccount.Name
	} else {
		repairs = append(repairs, "missing name")
	}
	if jaccount.Cash != nil && !jaccount.Cash.IsNegative() {
		account.Cash = *jaccount.Cash
	} else {
		repairs = append(repairs, "missing or negative cash balance")
	}

	for ticker, jlots := range jaccount.Holdings {
		var holding Holding
		for _, jlot := range jlots {
			var lot Lot
			if err := json.Unmarshal(jlot, &lot); err != nil {
				repairs = append(repairs, fmt.Sprintf("unreadable lot for %s", ticker))
				continue
			}
			if lot.Quantity <= 0 {
				repairs = append(repairs, fmt.Sprintf("non-positive lot for %s", ticker))
				continue
			}
			if lot.UnitCost.IsNegative() {
				repairs = append(repairs, fmt.Sprintf("negative unit cost for %s", ticker))
				continue
			}
			if lot.Sector == "" {
				lot.Sector = SectorUnknown
			}
			holding = append(holding, lot)
		}
		if len(holding) > 0 {
			account.Holdings[CanonicalTicker(ticker)] = holding
		}
	}

	if len(repairs) > 0 {
		return account, fmt.Errorf("record for %q repaired (%s): %w",
			username, strings.Join(repairs, "; "), ErrCorruptState)
	}
	return account, nil
}
