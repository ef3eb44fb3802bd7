package connection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCommand reports a request the client refuses to send.
var ErrInvalidCommand = errors.New("invalid command")

// CheckCommand reports whether args form exactly one command the server
// answers with exactly one reply.
//
// The server runs every command in a request and stays silent from the
// first unknown one on, so a request holding several commands, or an
// unknown one, would leave the connection out of step with Do.
func CheckCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}
	n := len(args) - 1
	switch strings.ToUpper(args[0]) {
	case "PING":
		if n == 0 {
			return nil
		}
		return usage("PING")
	case "ECHO":
		if n == 1 {
			return nil
		}
		return usage("ECHO value")
	case "GET":
		if n == 1 {
			return nil
		}
		return usage("GET key")
	case "SET":
		if n == 2 {
			return nil
		}
		if n == 4 && strings.EqualFold(args[3], "PX") {
			if _, err := strconv.ParseUint(args[4], 10, 64); err == nil {
				return nil
			}
		}
		return usage("SET key value [PX milliseconds]")
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, args[0])
	}
}

func usage(syntax string) error {
	return fmt.Errorf("%w: usage: %s", ErrInvalidCommand, syntax)
}
