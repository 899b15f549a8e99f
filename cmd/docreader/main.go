// Package main is the docreader CLI entry point.
package main

import (
	"os"

	"github.com/hyperjump/docreader/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
