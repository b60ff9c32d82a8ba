// Package tradelab implements a simulated stock portfolio: a single-user
// paper-trading account with lot-based FIFO accounting, live market
// valuations, and simple risk analytics. No real money is involved.
//
// The core functionalities include:
//   - Account Management: Each account starts with a fixed cash balance and
//     tracks its holdings as ordered lots, so every sale can be broken down
//     against the exact purchases it consumes.
//   - Valuation: The Analytics type combines an account with a price source
//     to compute market value, unrealized gains, sector allocations, and
//     aggregate risk figures such as weighted beta and volatility.
//   - Insights: A small rule engine flags concentration and valuation risks
//     in plain language.
//   - Reports: Plain data structures describing each report, consumed by the
//     renderer package to produce markdown for the terminal.
//
// This package serves as the foundational logic for the `tradelab`
// command-line tool; persistence and market data access live in the store
// and marketdata subpackages.
package tradelab
