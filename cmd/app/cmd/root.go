// Package cmd holds the marketboard CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"MarketBoard/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "marketboard",
	Short: "Mock stock market data API",
	Long: `MarketBoard serves a mock stock market: a static catalog, synthetic
daily series, watchlists, a demo portfolio and feature-flagged analytics.

Commands:
    serve       run the HTTP API
    catalog     print the stock catalog
    series      print the daily series for a symbol
`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(seriesCmd)
}

// loadConfig reads .env, the YAML file and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}
