// Package command defines the kvlite-cli commands using urfave/cli/v2.
//
// Each server command (ping, echo, set, get) sends one request and prints
// the reply. With no command, or with repl, the CLI reads commands
// interactively.
package command
