// Package main - stockctl CLI
//
// Usage:
//
//	go run ./cmd/stockctl quote MSFT
//	go run ./cmd/stockctl orders list
//	go run ./cmd/stockctl serve
package main

import (
	"os"

	"github.com/wonny/stockapp/cmd/stockctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
