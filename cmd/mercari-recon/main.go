// Package main is the entry point for the mercari-recon CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/mercari-recon/cmd/mercari-recon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
