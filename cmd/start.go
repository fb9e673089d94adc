package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roverswarm/rover/internal/agent"
	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/log"
)

var configPath string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the coordination agent",
	Long: `
Start the rover swarm coordination agent.

Examples:
  rover start                  # Start with the default config path
  rover start -c config.yml    # Start with a specific config file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := log.Init(cfg.Log); err != nil {
			return err
		}

		a, err := agent.New(cfg, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := a.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&configPath, "config", "c", "/etc/rover/config.yml",
		"config file path")
}
