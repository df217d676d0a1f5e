// Package main provides the syncedmem CLI.
package main

import (
	"os"

	"github.com/born-ml/syncedmem/cmd/syncedmem/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
