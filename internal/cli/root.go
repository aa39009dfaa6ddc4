// Package cli holds the command line entry points of the server binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/config"
	"github.com/iliyamo/paillette/internal/logger"
)

// NewRootCommand creates the root command with the serve, migrate and
// consume subcommands.  Configuration is loaded once before any of them
// runs.
func NewRootCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:           "paillette",
		Short:         "Booking and logistics back office of the troupe",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = loaded
			if _, err := logger.Init(cfg.Env); err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	cmd.AddCommand(newServeCommand(&cfg))
	cmd.AddCommand(newMigrateCommand(&cfg))
	cmd.AddCommand(newConsumeCommand(&cfg))
	return cmd
}
