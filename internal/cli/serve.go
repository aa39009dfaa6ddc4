package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/app"
	"github.com/iliyamo/paillette/internal/config"
	"github.com/iliyamo/paillette/internal/database"
	"github.com/iliyamo/paillette/internal/service"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(contextOf(cmd), *cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the schema before serving")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, migrate bool) error {
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if migrate {
		if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	var pub service.Publisher = service.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPub := service.NewAMQPPublisher(cfg.RabbitMQURL)
		defer amqpPub.Close()
		pub = amqpPub
	}

	e := app.New(cfg, app.Deps{DB: db, Redis: rdb, Publisher: pub, RateLimit: config.LoadRateLimitConfig()})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		zap.L().Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.Bool("redis", rdb != nil), zap.Bool("events", cfg.RabbitMQURL != ""))
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdown)
}
