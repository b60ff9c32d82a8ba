package tradelab

import "errors"

// Typed failures returned by the accounting and pricing layers. Commands
// match on these with errors.Is and decide how to surface them; the core
// never terminates the process.
var (
	// ErrPriceUnavailable means the market data source had no data for the
	// ticker, or the call failed or timed out. Aggregate metrics recover by
	// skipping the ticker; buy and sell abort without mutating the account.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInsufficientFunds means a buy would drive the cash balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares means a sell asks for more shares than held.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidQuantity means a non-positive share quantity was requested.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrNoPosition means a sell targets a ticker with no open position.
	ErrNoPosition = errors.New("no position")

	// ErrUserNotFound means the store has no account under that username.
	ErrUserNotFound = errors.New("user not found")

	// ErrCorruptState flags a persisted record that failed validation and
	// was repaired by falling back to creation defaults.
	ErrCorruptState = errors.New("corrupt persisted state")
)
