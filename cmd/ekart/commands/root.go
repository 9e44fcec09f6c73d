package commands

import (
	"fmt"
	"os"

	"github.com/safar/ekart/internal/config"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "ekart",
	Short: "ekart - e-commerce REST backend",
	Long: `ekart serves the storefront REST API (customers, catalog, reviews,
carts, wishlists and orders) over PostgreSQL.

Configuration is read from the environment, optionally seeded from a dotenv
file given with --env-file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default ./.env)")
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
		return config.Load(envFile)
	}
	return config.Load()
}
