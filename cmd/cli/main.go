// Package main is the entry point for the pajakin CLI.
package main

import (
	"os"

	"pajakin/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
