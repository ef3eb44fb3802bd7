package command

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvlite-go/internal/cli/config"
	"github.com/yndnr/kvlite-go/internal/cli/connection"
	"github.com/yndnr/kvlite-go/internal/cli/output"
	"github.com/yndnr/kvlite-go/internal/infra/buildinfo"
)

const (
	metaSettings = "settings"
	metaConnMgr  = "connMgr"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "kvlite-cli",
		Usage:    "command-line client for kvlite",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Commands: []*cli.Command{PingCommand(), EchoCommand(), SetCommand(), GetCommand(), ReplCommand()},
		// No command starts the REPL.
		Action: replAction,
		Before: func(c *cli.Context) error {
			s, err := resolveSettings(c)
			if err != nil {
				return err
			}
			c.App.Metadata[metaSettings] = s
			c.App.Metadata[metaConnMgr] = connection.NewManager(s.Server, s.Timeout)
			return nil
		},
		After: func(c *cli.Context) error {
			if mgr := GetConnectionManager(c); mgr != nil {
				mgr.Disconnect()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "kvlite server address",
			EnvVars: []string{"KVLITE_SERVER"},
			Value:   config.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "connection",
			Aliases: []string{"c"},
			Usage:   "use a named connection from the config file",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
			EnvVars: []string{"KVLITE_OUTPUT"},
			Value:   config.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "dial and request timeout, 0 for none",
			EnvVars: []string{"KVLITE_TIMEOUT"},
			Value:   config.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"KVLITE_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// Settings is the effective configuration after merging the config file,
// environment and flags.
type Settings struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
}

// resolveSettings applies flags and environment over the config file.
func resolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	server, err := cfg.Server(c.String("connection"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("server") {
		if c.IsSet("connection") {
			return nil, errors.New("--server and --connection are mutually exclusive")
		}
		server = c.String("server")
	}

	format := cfg.DefaultOutput
	if c.IsSet("output") {
		format = c.String("output")
	}
	out, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %v", timeout)
	}

	return &Settings{
		Server:      server,
		Output:      out,
		Timeout:     timeout,
		HistoryFile: cfg.HistoryFile,
	}, nil
}

// GetSettings retrieves the resolved settings from context.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[metaSettings].(*Settings); ok {
		return s
	}
	return nil
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata[metaConnMgr].(*connection.Manager); ok {
		return mgr
	}
	return nil
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
