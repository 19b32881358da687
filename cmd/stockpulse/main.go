package main

import (
	"os"

	"github.com/wonny/stockpulse/backend/cmd/stockpulse/commands"
)

// main is the entry point for the StockPulse CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/stockpulse [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
