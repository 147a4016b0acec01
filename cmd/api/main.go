package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "charter-flights",
		Short: "Charter flight lifecycle API",
		Long: `Charter flight lifecycle API.

Turns accepted charter offers into bookings, schedules bookings onto flights
and their legs, and serves empty-leg searches.

Examples:
  charter-flights migrate
  charter-flights serve --config ./configs/config.yaml`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./config.yaml when present)")

	cmd.AddCommand(newServeCommand(&configPath))
	cmd.AddCommand(newMigrateCommand(&configPath))

	return cmd
}
