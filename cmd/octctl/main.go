package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocean-tracker/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "octctl",
		Short: "OceanTracker developer tools",
		Long: `octctl talks to the configured shipment store directly.
It reads the same environment and .env file as the API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.TokenCmd())
	rootCmd.AddCommand(cli.TrackingNumberCmd())
	rootCmd.AddCommand(cli.TrackCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
