package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/marmos91/helocheck/cmd/helocheck/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		// A failed verification has already been reported
		if errors.Is(err, commands.ErrCheckFailed) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
