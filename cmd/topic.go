package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/Gxlcyy/TradeLab/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read a documentation topic" }
func (*topicCmd) Usage() string {
	return `tradelab topic [<name>...]

  Prints one or more documentation topics. Without arguments, lists the
  available topics. Use '*' to print them all.
`
}
func (*topicCmd) SetFlags(_ *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return fail(err)
		}
		fmt.Println("Available topics:", strings.Join(topics, ", "))
		return subcommands.ExitSuccess
	}

	content, err := docs.GetTopics(f.Args()...)
	if err != nil {
		return fail(err)
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
