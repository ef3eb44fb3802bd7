// Package repl provides the interactive mode of kvlite-cli.
//
// Each line is split into arguments (double and single quotes group words,
// backslash escapes work inside double quotes) and sent as one command.
// The REPL itself handles help, history, exit and quit.
package repl
