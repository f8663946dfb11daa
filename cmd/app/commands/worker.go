package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jfwood/barbican/internal/app"
	"github.com/jfwood/barbican/internal/config"
)

// RunWorker starts the task processing server standalone: the worker pool
// draining the transport plus the periodic retry scheduler. Requires the
// queue to be enabled. Blocks until receiving SIGINT/SIGTERM.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	taskServer, err := container.TaskServer()
	if err != nil {
		return fmt.Errorf("failed to initialize task server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		taskServer.Start()
		<-ctx.Done()
		logger.Info("shutdown signal received")
		taskServer.Stop()
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(ctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
			defer shutdownCancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
