package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/Gxlcyy/TradeLab/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completer describes the command tree for shell completion.
var completer = &complete.Command{
	Flags: map[string]complete.Predictor{
		"data": predict.Dirs("*"),
		"ttl":  predict.Nothing,
	},
	Sub: map[string]*complete.Command{
		"shell":     {},
		"login":     {Flags: map[string]complete.Predictor{"create": predict.Nothing}},
		"users":     {},
		"buy":       {Flags: map[string]complete.Predictor{"u": predict.Nothing, "t": predict.Nothing, "q": predict.Nothing}},
		"sell":      {Flags: map[string]complete.Predictor{"u": predict.Nothing, "t": predict.Nothing, "q": predict.Nothing}},
		"reset":     {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"portfolio": {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"value":     {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"risk":      {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"insights":  {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
		"topic":     {Args: predict.Set{"commands", "lots", "metrics", "*"}},
		"assist":    {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
	},
}

func main() {
	name := path.Base(os.Args[0])

	// In a completion context this prints the completions and exits.
	completer.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
