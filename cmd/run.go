package cmd

import (
	"context"
	"fmt"
	"time"

	"quina/application"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled sync worker until interrupted",
		Args:  noArgs,
		RunE:  rt.withApp(Run),
	}
}

// Run starts the sync worker and blocks until ctx is cancelled
func Run(ctx context.Context, app *App) error {
	log.Info("Starting quina worker...")

	cfg := app.Config
	worker, err := application.NewSyncWorker(app.Sync, cfg.SyncSchedule, cfg.SyncTimezone, cfg.SyncOnStart)
	if err != nil {
		return fmt.Errorf("failed to create sync worker: %w", err)
	}
	stopWorker := worker.Start(ctx)

	// Wait for context cancellation
	log.Infof("Worker is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down worker...")

	// Give the running sync time to observe cancellation
	stopped := make(chan struct{})
	go func() {
		stopWorker()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("Shutdown completed")
	case <-time.After(10 * time.Second):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}
