// Package cmd implements the CLI application to manage the simulated
// portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Gxlcyy/TradeLab"
	"github.com/Gxlcyy/TradeLab/marketdata"
	"github.com/Gxlcyy/TradeLab/store"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&shellCmd{}, "session")
	c.Register(&loginCmd{}, "session")
	c.Register(&usersCmd{}, "session")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&resetCmd{}, "trading")

	c.Register(&portfolioCmd{}, "reports")
	c.Register(&valueCmd{}, "reports")
	c.Register(&riskCmd{}, "reports")
	c.Register(&insightsCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", "data", "Path to the data directory holding the portfolio records")
var cacheTTL = flag.Int("ttl", 60, "Price cache time-to-live in seconds")

// openStore opens the portfolio store in the app data directory.
func openStore() (*store.Store, error) {
	return store.Open(*dataDir)
}

// openMarket returns the price cache over the live Yahoo source.
func openMarket() *marketdata.Cache {
	return marketdata.NewCache(marketdata.NewYahooSource(), time.Duration(*cacheTTL)*time.Second)
}

// currentUser resolves the username an account-bound command acts on: the
// explicit -u flag when given, otherwise the last active user.
func currentUser(explicit string, s *store.Store) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if last := s.LastUser(); last != "" {
		return last, nil
	}
	return "", fmt.Errorf("no active user, log in first: %w", tradelab.ErrUserNotFound)
}

// printMarkdown renders a markdown report in the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// fail prints an error and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// storeAPI is the slice of the store the commands use, so tests can swap in
// a fake.
type storeAPI interface {
	Get(username string) (*tradelab.Account, error)
	Update(username string, fn func(*tradelab.Account) error) error
}

// marketAPI is the market data surface the commands use: the quoter plus
// the sector lookup done at purchase time.
type marketAPI interface {
	tradelab.Quoter
	Sector(ctx context.Context, ticker string) string
}
