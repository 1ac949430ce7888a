// Package main provides the entry point for the leaplook CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leaplook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
