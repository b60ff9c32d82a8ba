package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Gxlcyy/TradeLab/agent"
	"github.com/Gxlcyy/TradeLab/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	user string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `tradelab assist [-u <user>] [question...]

  Starts an interactive session with the AI assistant, primed with your
  current portfolio, risk and insights reports. Requires a Gemini API key
  in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Account username (defaults to the last active user)")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	analytics, err := openAnalytics(c.user)
	if err != nil {
		return fail(err)
	}
	reports := strings.Join([]string{
		renderer.Portfolio(analytics.NewPortfolioReport(ctx)),
		renderer.Risk(analytics.NewRiskReport(ctx)),
		renderer.Insights(analytics.NewInsightsReport(ctx)),
	}, "\n")

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin)
	prompts := []string{}
	if initialPrompt != "" {
		prompts = append(prompts, initialPrompt)
	}
	if err := a.Run(ctx, client, reports, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
