package cmd

import (
	"context"
	"flag"

	"github.com/Gxlcyy/TradeLab"
	"github.com/Gxlcyy/TradeLab/renderer"
	"github.com/google/subcommands"
)

// openAnalytics wires the account of the given (or last active) user to the
// live market cache.
func openAnalytics(user string) (*tradelab.Analytics, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	username, err := currentUser(user, s)
	if err != nil {
		return nil, err
	}
	account, err := s.Get(username)
	if err != nil {
		return nil, err
	}
	return tradelab.NewAnalytics(account, openMarket()), nil
}

// reportCmd factors the shape shared by the read-only report commands:
// a -u flag and a render function over the account analytics.
type reportCmd struct {
	user     string
	name     string
	synopsis string
	usage    string
	render   func(context.Context, *tradelab.Analytics) string
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string    { return c.usage }

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Account username (defaults to the last active user)")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	analytics, err := openAnalytics(c.user)
	if err != nil {
		return fail(err)
	}
	printMarkdown(c.render(ctx, analytics))
	return subcommands.ExitSuccess
}

type portfolioCmd struct{ reportCmd }
type valueCmd struct{ reportCmd }
type riskCmd struct{ reportCmd }
type insightsCmd struct{ reportCmd }

func (c *portfolioCmd) Name() string     { return "portfolio" }
func (c *portfolioCmd) Synopsis() string { return "view current holdings with values and allocation" }
func (c *portfolioCmd) Usage() string {
	return `tradelab portfolio [-u <user>]

  Shows the holdings table: quantity, average cost, current price, value and
  allocation per ticker, plus the total value and dominant sector.
`
}
func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.render = func(ctx context.Context, an *tradelab.Analytics) string {
		return renderer.Portfolio(an.NewPortfolioReport(ctx))
	}
	return c.reportCmd.Execute(ctx, f, args...)
}

func (c *valueCmd) Name() string     { return "value" }
func (c *valueCmd) Synopsis() string { return "compare the portfolio P/E against the S&P 500" }
func (c *valueCmd) Usage() string {
	return `tradelab value [-u <user>]

  Shows the position-weighted average trailing P/E, the S&P 500 benchmark,
  and a simple DCF upside heuristic.
`
}
func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.render = func(ctx context.Context, an *tradelab.Analytics) string {
		return renderer.Valuation(an.NewValuationReport(ctx))
	}
	return c.reportCmd.Execute(ctx, f, args...)
}

func (c *riskCmd) Name() string     { return "risk" }
func (c *riskCmd) Synopsis() string { return "analyze portfolio risk metrics" }
func (c *riskCmd) Usage() string {
	return `tradelab risk [-u <user>]

  Shows the weighted beta, pooled one-year volatility, diversification score
  and the sector allocation.
`
}
func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.render = func(ctx context.Context, an *tradelab.Analytics) string {
		return renderer.Risk(an.NewRiskReport(ctx))
	}
	return c.reportCmd.Execute(ctx, f, args...)
}

func (c *insightsCmd) Name() string     { return "insights" }
func (c *insightsCmd) Synopsis() string { return "get rule-based investment insights" }
func (c *insightsCmd) Usage() string {
	return `tradelab insights [-u <user>]

  Evaluates the concentration and valuation warning rules against the
  portfolio and prints every one that fires.
`
}
func (c *insightsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.render = func(ctx context.Context, an *tradelab.Analytics) string {
		return renderer.Insights(an.NewInsightsReport(ctx))
	}
	return c.reportCmd.Execute(ctx, f, args...)
}
