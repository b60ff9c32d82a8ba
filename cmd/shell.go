package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Gxlcyy/TradeLab"
	"github.com/Gxlcyy/TradeLab/docs"
	"github.com/Gxlcyy/TradeLab/marketdata"
	"github.com/Gxlcyy/TradeLab/renderer"
	"github.com/Gxlcyy/TradeLab/store"
	"github.com/google/subcommands"
)

const banner = `
 _____              _      _          _
|_   _| __ __ _  __| | ___| |    __ _| |__
  | || '__/ _` + "`" + ` |/ _` + "`" + ` |/ _ \ |   / _` + "`" + ` | '_ \
  | || | | (_| | (_| |  __/ |__| (_| | |_) |
  |_||_|  \__,_|\__,_|\___|_____\__,_|_.__/

        "Your personal investing terminal"
`

// --- Shell Command ---

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start the interactive investing terminal" }
func (*shellCmd) Usage() string {
	return `tradelab shell

  Starts the interactive session: greets first-time users, auto-loads the
  last active account, and reads commands until 'exit'.
`
}
func (*shellCmd) SetFlags(_ *flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	sh := &shell{
		store:  s,
		market: openMarket(),
		in:     bufio.NewReader(os.Stdin),
	}
	if err := sh.run(ctx); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// shell drives the interactive session: one user at a time, a command
// prompt, and the same commands the CLI exposes.
type shell struct {
	store  *store.Store
	market *marketdata.Cache
	in     *bufio.Reader
}

func (sh *shell) run(ctx context.Context) error {
	fmt.Print(banner)

	if sh.store.IsFirstRun() {
		fmt.Println("Welcome to TradeLab!")
		fmt.Println("This seems to be your first time running the application.")
		if err := sh.store.SetFirstRunDone(); err != nil {
			return err
		}
		username, err := sh.newUser()
		if err != nil {
			return err
		}
		return sh.session(ctx, username)
	}

	if last := sh.store.LastUser(); last != "" {
		if _, err := sh.store.Get(last); err == nil {
			fmt.Printf("Auto-loading last user: %s\n", last)
			return sh.session(ctx, last)
		}
	}
	username, err := sh.login()
	if err != nil {
		return err
	}
	return sh.session(ctx, username)
}

// prompt reads one trimmed line of input.
func (sh *shell) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := sh.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// newUser asks for a username and creates the account if missing.
func (sh *shell) newUser() (string, error) {
	for {
		username, err := sh.prompt("Enter a username for your account: ")
		if err != nil {
			return "", err
		}
		if username == "" {
			fmt.Println("Username cannot be empty.")
			continue
		}
		if _, err := sh.store.Get(username); err == nil {
			fmt.Printf("User %q already exists. Logging in...\n", username)
		} else {
			if _, err := sh.store.Ensure(username); err != nil {
				return "", err
			}
			fmt.Printf("New user %q created!\n", username)
		}
		return username, sh.store.SetLastUser(username)
	}
}

// login asks for an existing username, offering account creation when the
// user is unknown.
func (sh *shell) login() (string, error) {
	username, err := sh.prompt("Enter your username: ")
	if err != nil {
		return "", err
	}
	if _, err := sh.store.Get(username); err == nil {
		return username, sh.store.SetLastUser(username)
	}
	fmt.Printf("User %q not found. Please create a new account.\n", username)
	return sh.newUser()
}

// session is the main screen loop: header, then command dispatch until
// exit or logout.
func (sh *shell) session(ctx context.Context, username string) error {
	for {
		sh.header(ctx, username)
		again, err := sh.dispatch(ctx, username)
		if err != nil {
			return err
		}
		switch again {
		case sessionContinue:
			// redraw the header and keep going
		case sessionLogout:
			next, err := sh.login()
			if err != nil {
				return err
			}
			username = next
		case sessionExit:
			fmt.Println("Exiting...")
			return nil
		}
	}
}

type sessionOutcome int

const (
	sessionContinue sessionOutcome = iota
	sessionLogout
	sessionExit
)

// header prints the account summary above the command prompt.
func (sh *shell) header(ctx context.Context, username string) {
	account, err := sh.store.Get(username)
	if err != nil {
		fmt.Printf("Portfolio for user %q not found.\n", username)
		return
	}
	analytics := tradelab.NewAnalytics(account, sh.market)
	printMarkdown(renderer.Summary(analytics.NewSummaryReport(ctx)))
	fmt.Println("Commands: [portfolio] [buy] [sell] [risk] [value] [insights] [reset] [logout] [exit] [help]")
}

// dispatch reads and runs one command.
func (sh *shell) dispatch(ctx context.Context, username string) (sessionOutcome, error) {
	line, err := sh.prompt("> ")
	if err != nil {
		return sessionExit, nil
	}
	if line == "" {
		return sessionContinue, nil
	}
	cmd := strings.ToLower(strings.Fields(line)[0])

	switch cmd {
	case "exit":
		return sessionExit, nil
	case "logout":
		return sessionLogout, nil
	case "help":
		topics, err := docs.GetTopic("commands")
		if err != nil {
			return sessionContinue, err
		}
		printMarkdown(topics)
	case "reset":
		if err := sh.store.Reset(username); err != nil {
			fmt.Println("Error:", err)
		} else {
			fmt.Printf("Portfolio for %q has been reset.\n", username)
		}
	case "buy":
		sh.buy(ctx, username)
	case "sell":
		sh.sell(ctx, username)
	case "portfolio", "risk", "value", "insights":
		sh.report(ctx, username, cmd)
	default:
		fmt.Println("Unknown command. Type 'help' for available options.")
	}
	return sessionContinue, nil
}

// report renders one of the read-only reports.
func (sh *shell) report(ctx context.Context, username, which string) {
	account, err := sh.store.Get(username)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	analytics := tradelab.NewAnalytics(account, sh.market)
	switch which {
	case "portfolio":
		printMarkdown(renderer.Portfolio(analytics.NewPortfolioReport(ctx)))
	case "risk":
		printMarkdown(renderer.Risk(analytics.NewRiskReport(ctx)))
	case "value":
		printMarkdown(renderer.Valuation(analytics.NewValuationReport(ctx)))
	case "insights":
		printMarkdown(renderer.Insights(analytics.NewInsightsReport(ctx)))
	}
}

// buy asks for a ticker and quantity, shows the current price in between,
// then delegates to the shared buy flow.
func (sh *shell) buy(ctx context.Context, username string) {
	ticker, err := sh.prompt("Enter ticker symbol to buy: ")
	if err != nil || ticker == "" {
		return
	}
	price, err := sh.market.Price(ctx, ticker)
	if err != nil {
		fmt.Println("Purchase aborted due to unavailable price.")
		return
	}
	fmt.Printf("Current Ticker Price: %s\n", price)

	qty, ok := sh.promptQuantity("Enter quantity to buy: ")
	if !ok {
		return
	}
	if err := runBuy(ctx, sh.store, sh.market, username, ticker, qty); err != nil {
		fmt.Println("Error:", err)
	}
}

// sell lists the current assets, then asks for a ticker and quantity.
func (sh *shell) sell(ctx context.Context, username string) {
	account, err := sh.store.Get(username)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(account.Holdings) == 0 {
		fmt.Println("You have no assets to sell.")
		return
	}
	fmt.Println("Your current assets:")
	for _, ticker := range account.Tickers() {
		holding := account.Holdings[ticker]
		fmt.Printf("  %s: %d shares (Avg buy: %s, Sector: %s)\n",
			ticker, holding.TotalQuantity(), holding.AverageCost().Round(), holding.Sector())
	}

	ticker, err := sh.prompt("Enter ticker symbol to sell: ")
	if err != nil || ticker == "" {
		return
	}
	qty, ok := sh.promptQuantity("Enter quantity to sell: ")
	if !ok {
		return
	}
	if err := runSell(ctx, sh.store, sh.market, username, ticker, qty); err != nil {
		fmt.Println("Error:", err)
	}
}

func (sh *shell) promptQuantity(label string) (int64, bool) {
	raw, err := sh.prompt(label)
	if err != nil {
		return 0, false
	}
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || qty <= 0 {
		fmt.Println("Invalid quantity.")
		return 0, false
	}
	return qty, true
}
