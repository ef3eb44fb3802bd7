package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvlite-go/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Enter commands interactively",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}
	s := GetSettings(c)
	mgr := GetConnectionManager(c)
	if s == nil || mgr == nil {
		return errors.New("cli not initialized")
	}

	history := repl.NewHistory(s.HistoryFile)
	if err := history.Load(); err != nil {
		PrintError(c.App.ErrWriter, "load history: %v", err)
	}

	r := repl.New(repl.Config{
		Input:  c.App.Reader,
		Output: c.App.Writer,
		Prompt: mgr.Addr() + "> ",
		Exec: func(args []string) error {
			return execute(c.Context, mgr, s, c.App.Writer, args)
		},
		History: history,
	})
	if err := r.Run(); err != nil {
		return err
	}
	return history.Save()
}
