// Package main provides the supplify CLI: a CRM over a Google Sheets or
// in-memory row store, with an agent-facing HTTP API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
