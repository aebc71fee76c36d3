// Package main provides the tabletalk CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/tabletalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
