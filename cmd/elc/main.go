// Package main is the entry point for the elc CLI client.
package main

import (
	"github.com/donaldgifford/ebay-listing-creator/cmd/elc/cmd"
)

func main() {
	cmd.Execute()
}
