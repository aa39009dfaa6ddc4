package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/config"
	"github.com/iliyamo/paillette/internal/queue"
)

func newConsumeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Journal domain events from the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.RabbitMQURL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			zap.L().Info("consuming events", zap.String("queue", queue.QueueName), zap.String("journal", cfg.EventLog))
			err := queue.StartConsumer(ctx, cfg.RabbitMQURL, cfg.EventLog)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
