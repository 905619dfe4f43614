package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "levtrader",
	Short: "A leveraged crypto paper-trading simulator",
	Long: `Levtrader simulates leveraged trading on crypto price feeds.

It tracks a virtual cash balance, opens and closes simulated leveraged
positions, computes profit/loss under leverage, and records rolling
performance history. Prices come from Binance (REST polling or a websocket
stream) or from the HTTP API; nothing is ever executed against a real
exchange.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
