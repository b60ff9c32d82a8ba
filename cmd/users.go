package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// --- Users Command ---

type usersCmd struct{}

func (*usersCmd) Name() string     { return "users" }
func (*usersCmd) Synopsis() string { return "list known accounts" }
func (*usersCmd) Usage() string {
	return `tradelab users

  Lists every account in the portfolio store; the last active user is marked.
`
}
func (*usersCmd) SetFlags(_ *flag.FlagSet) {}

func (*usersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	last := s.LastUser()
	usernames := s.Usernames()
	if len(usernames) == 0 {
		fmt.Println("No accounts yet. Use 'tradelab login -create <username>' to create one.")
		return subcommands.ExitSuccess
	}
	for _, username := range usernames {
		marker := " "
		if username == last {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, username)
	}
	return subcommands.ExitSuccess
}

// --- Login Command ---

type loginCmd struct {
	create bool
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "switch the active account" }
func (*loginCmd) Usage() string {
	return `tradelab login [-create] <username>

  Makes <username> the active account for subsequent commands. With -create,
  a missing account is created with the starting balance.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.create, "create", false, "Create the account if it does not exist")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	username := f.Arg(0)

	s, err := openStore()
	if err != nil {
		return fail(err)
	}

	if c.create {
		if _, err := s.Ensure(username); err != nil {
			return fail(err)
		}
	} else if _, err := s.Get(username); err != nil {
		fmt.Fprintf(os.Stderr, "User %q not found. Use -create to create a new account.\n", username)
		return subcommands.ExitFailure
	}

	if err := s.SetLastUser(username); err != nil {
		return fail(err)
	}
	fmt.Printf("Logged in as %q.\n", username)
	return subcommands.ExitSuccess
}
