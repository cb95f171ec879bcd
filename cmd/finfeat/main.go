package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "finfeat",
	Short: "finfeat - technical-indicator feature pipeline",
	Long: `finfeat turns raw multi-ticker OHLCV bars into a clean, strictly
contiguous dataset with supervised targets and technical-indicator
features (SMA, EMA, MACD, Bollinger Bands, RSI).`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
