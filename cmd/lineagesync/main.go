// Package main provides the CLI for lineagesync.
package main

import (
	"os"

	"github.com/leapstack-labs/lineagesync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
