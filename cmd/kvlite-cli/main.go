package main

import (
	"fmt"
	"io"
	"os"

	"github.com/yndnr/kvlite-go/internal/cli/command"
)

func main() {
	os.Exit(run(os.Args, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	app := command.App()
	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		return 1
	}
	return 0
}
