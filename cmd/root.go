// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rover",
	Short: "Rover - autonomous ground rover swarm coordination agent",
	Long: `Rover coordinates a small fleet of autonomous ground rovers.
Leader and follower units discover one another and exchange compact
state/command messages over periodic BLE advertisement broadcasts, and
decide real-time behavior by combining onboard perception with messages
received from peers.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
}
