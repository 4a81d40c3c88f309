// Package main is the entry point for the agentwire CLI.
package main

import (
	"os"

	"github.com/agentwire/agentwire/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
