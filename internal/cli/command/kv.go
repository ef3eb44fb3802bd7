package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvlite-go/internal/cli/connection"
	"github.com/yndnr/kvlite-go/internal/cli/output"
	"github.com/yndnr/kvlite-go/internal/protocol/resp"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			if c.NArg() != 0 {
				return usageError(c)
			}
			return send(c, "PING")
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server return a value",
		ArgsUsage: "VALUE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c)
			}
			return send(c, "ECHO", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "px",
				Usage: "expire after this many milliseconds",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return usageError(c)
			}
			args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
			if c.IsSet("px") {
				args = append(args, "PX", strconv.FormatUint(c.Uint64("px"), 10))
			}
			return send(c, args...)
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read a value",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c)
			}
			return send(c, "GET", c.Args().First())
		},
	}
}

func usageError(c *cli.Context) error {
	return fmt.Errorf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
}

// send runs one command and prints its reply.
func send(c *cli.Context, args ...string) error {
	s := GetSettings(c)
	mgr := GetConnectionManager(c)
	if s == nil || mgr == nil {
		return errors.New("cli not initialized")
	}
	return execute(c.Context, mgr, s, c.App.Writer, args)
}

func execute(ctx context.Context, mgr *connection.Manager, s *Settings, w io.Writer, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	r, err := mgr.Do(ctx, args...)
	if err != nil {
		var er resp.ErrorReply
		if errors.As(err, &er) {
			return fmt.Errorf("server: %w", err)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s closed the connection without replying", mgr.Addr())
		}
		return err
	}
	return output.NewFormatter(s.Output).Format(w, output.FromReply(r))
}
