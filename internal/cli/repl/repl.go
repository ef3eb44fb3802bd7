package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExecFunc runs one command line already split into arguments.
type ExecFunc func(args []string) error

// Config configures a REPL.
type Config struct {
	Input  io.Reader
	Output io.Writer
	// Prompt defaults to "kvlite> ".
	Prompt  string
	Exec    ExecFunc
	History *History
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      ExecFunc
	completer *Completer
	history   *History
}

// New creates a new REPL instance.
func New(cfg Config) *REPL {
	r := &REPL{
		input:     cfg.Input,
		output:    cfg.Output,
		prompt:    cfg.Prompt,
		exec:      cfg.Exec,
		completer: NewCompleter(),
		history:   cfg.History,
	}
	if r.prompt == "" {
		r.prompt = "kvlite> "
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run reads lines until exit, quit or end of input.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if r.handle(line) {
				return nil
			}
		}
		if eof {
			fmt.Fprintln(r.output)
			return nil
		}
	}
}

// handle runs one line and reports whether the REPL should stop.
func (r *REPL) handle(line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help":
		r.help(args[1:])
		return false
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	}

	if r.exec == nil {
		return false
	}
	if err := r.exec(args); err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
	}
	return false
}

func (r *REPL) help(args []string) {
	if len(args) == 1 {
		matches := r.completer.Complete(args[0])
		if len(matches) == 0 {
			fmt.Fprintf(r.output, "no command matches %q\n", args[0])
			return
		}
		fmt.Fprintln(r.output, strings.Join(matches, " "))
		return
	}
	fmt.Fprintln(r.output, "Commands:")
	fmt.Fprintln(r.output, "  PING                      check the server")
	fmt.Fprintln(r.output, "  ECHO value                echo value back")
	fmt.Fprintln(r.output, "  SET key value [PX ms]     store value, optionally expiring")
	fmt.Fprintln(r.output, "  GET key                   read value")
	fmt.Fprintln(r.output, "  help [prefix]             list commands, or those matching prefix")
	fmt.Fprintln(r.output, "  history                   show previous lines")
	fmt.Fprintln(r.output, "  exit, quit                leave")
}
