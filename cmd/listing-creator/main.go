// Package main is the entry point for the listing-creator server.
package main

import (
	"os"

	"github.com/donaldgifford/ebay-listing-creator/cmd/listing-creator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
