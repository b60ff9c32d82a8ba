package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/Gxlcyy/TradeLab"
	"github.com/Gxlcyy/TradeLab/renderer"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	user     string
	ticker   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares at the current market price" }
func (*buyCmd) Usage() string {
	return `tradelab buy -t <ticker> -q <quantity> [-u <user>]

  Buys shares at the latest market price. The total cost is debited from the
  simulated cash balance and recorded as a new purchase lot.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Account username (defaults to the last active user)")
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	username, err := currentUser(c.user, s)
	if err != nil {
		return fail(err)
	}
	if err := runBuy(ctx, s, openMarket(), username, c.ticker, c.quantity); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// runBuy resolves the price and sector, then commits the purchase as one
// load-mutate-save critical section. A sector lookup failure degrades to
// "Unknown" and never blocks the purchase.
func runBuy(ctx context.Context, s storeAPI, quotes marketAPI, username, ticker string, qty int64) error {
	price, err := quotes.Price(ctx, ticker)
	if err != nil {
		return fmt.Errorf("purchase aborted: %w", err)
	}
	sector := quotes.Sector(ctx, ticker)

	err = s.Update(username, func(account *tradelab.Account) error {
		return account.Buy(ticker, qty, price, sector)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Successfully purchased %d shares of %s at %s.\n", qty, tradelab.CanonicalTicker(ticker), price)
	return nil
}

// --- Sell Command ---

type sellCmd struct {
	user     string
	ticker   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares, consuming the oldest lots first" }
func (*sellCmd) Usage() string {
	return `tradelab sell -t <ticker> -q <quantity> [-u <user>]

  Sells shares at the latest market price. Shares are taken from the oldest
  purchase lots first (FIFO) and the realized gain per lot is reported.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Account username (defaults to the last active user)")
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	username, err := currentUser(c.user, s)
	if err != nil {
		return fail(err)
	}
	if err := runSell(ctx, s, openMarket(), username, c.ticker, c.quantity); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// runSell resolves the sale price, commits the FIFO sale atomically, and
// prints the per-lot receipt.
func runSell(ctx context.Context, s storeAPI, quotes marketAPI, username, ticker string, qty int64) error {
	price, err := quotes.Price(ctx, ticker)
	if err != nil {
		return fmt.Errorf("sale aborted: %w", err)
	}

	var sold []tradelab.LotSale
	err = s.Update(username, func(account *tradelab.Account) error {
		sold, err = account.Sell(ticker, qty, price)
		return err
	})
	if err != nil {
		return err
	}
	printMarkdown(renderer.Receipt(tradelab.NewSellReceipt(ticker, qty, price, sold)))
	return nil
}

// --- Reset Command ---

type resetCmd struct {
	user string
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "reset an account to its starting state" }
func (*resetCmd) Usage() string {
	return `tradelab reset [-u <user>]

  Returns the account to its creation state: $10,000 cash, no holdings.
  The account itself is kept.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Account username (defaults to the last active user)")
}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	username, err := currentUser(c.user, s)
	if err != nil {
		return fail(err)
	}
	if err := s.Reset(username); err != nil {
		return fail(err)
	}
	fmt.Printf("Portfolio for %q has been reset.\n", username)
	return subcommands.ExitSuccess
}
