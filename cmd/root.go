// Package cmd defines and implements the CLI commands for the harvester
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Harvests event announcements from public Telegram channels.",
		Long: `harvester fetches the public listing pages of configured Telegram
channels, extracts structured event records from event-like posts and
writes them to per-channel JSONL files together with a human-readable
report and run statistics.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (built-in defaults apply without one)")
	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
