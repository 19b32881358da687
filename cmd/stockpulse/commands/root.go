package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env      string
	provider string
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpulse",
	Short: "StockPulse - NSE/BSE 종목 추천 엔진",
	Long: `StockPulse Unified CLI

Fetches quotes, fundamentals and daily history for a basket of Indian
equities and scores each one BUY / HOLD / SELL on a 0-10 scale.

Usage:
  go run ./cmd/stockpulse [command]

Examples:
  go run ./cmd/stockpulse api
  go run ./cmd/stockpulse score TCS.NSE
  go run ./cmd/stockpulse scheduler run basket_warmup`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags, empty = keep the environment value
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "market data provider (yahoo|alphavantage)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
