// Package main provides the hoardctl CLI tool for inspecting and
// manipulating a disk cache directory.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
