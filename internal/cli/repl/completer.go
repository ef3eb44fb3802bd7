package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the server commands and the
// REPL's own commands.
func NewCompleter() *Completer {
	commands := []string{
		"PING", "ECHO", "SET", "GET",
		"help", "history", "exit", "quit",
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	p := strings.ToLower(prefix)
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), p) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
