// Package main is the entry point of the inspectomop CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/inspectomop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
