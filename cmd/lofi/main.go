// Package main is the entry point for the lofi CLI.
//
// Usage:
//
//	lofi [flags] <command> [args]
//
// Commands:
//
//	play     - Play generated songs until interrupted
//	render   - Render one song to a WAV file
//	inspect  - Print a song's structure and automation as YAML
package main

import (
	"fmt"
	"os"

	"github.com/cbegin/lofi-go/cmd/lofi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
