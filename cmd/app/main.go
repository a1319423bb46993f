// Package main is the MarketBoard entry point.
//
// Usage:
//
//	go run ./cmd/app serve --config config/config.yaml
//	go run ./cmd/app catalog
//	go run ./cmd/app series IBM
package main

import (
	"os"

	"MarketBoard/cmd/app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
