// Package main provides the entry point for csrfctl.
//
// csrfctl is the command-line client for csrfd, supporting both
// single-command mode and an interactive REPL that shares one session
// across commands.
package main

import (
	"fmt"
	"os"

	"github.com/lingtalfi/CSRFTools/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
