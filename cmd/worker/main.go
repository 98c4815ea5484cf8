package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pursuit-backend/application/services"
	"pursuit-backend/infrastructure/config"
	"pursuit-backend/infrastructure/di"
	"pursuit-backend/infrastructure/worker"
)

// The worker recomputes velocity and prediction for every active entity
// on a fixed interval and persists the derived metrics, so dashboards
// read fresh numbers without triggering computation themselves.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	container.Dispatcher.Start()
	defer container.Dispatcher.Stop()

	container.Logger.Info("Starting analytics worker",
		zap.Duration("interval", cfg.BatchInterval),
		zap.String("driver", cfg.PersistenceDriver),
	)

	ticker := time.NewTicker(cfg.BatchInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// First pass immediately, then on every tick
	runBatch(ctx, container)

	for {
		select {
		case <-ticker.C:
			runBatch(ctx, container)

		case <-sigChan:
			container.Logger.Info("Shutting down worker...")
			container.Thresholds.Stop()
			if err := container.Logger.Sync(); err != nil {
				log.Printf("Failed to sync logger: %v", err)
			}
			return
		}
	}
}

func runBatch(ctx context.Context, container *di.Container) {
	resp, err := container.Dispatcher.Submit(ctx, worker.Request{
		Type: worker.RequestBatchAnalytics,
	})
	if err != nil {
		container.Logger.Error("Batch submission failed", zap.Error(err))
		return
	}
	if resp == nil {
		// Timed out; the next tick will try again
		container.Logger.Warn("Batch computation did not finish in time")
		return
	}
	if resp.Err != nil {
		container.Logger.Error("Batch computation failed", zap.Error(resp.Err))
		return
	}

	if result, ok := resp.Payload.(services.BatchAnalyticsResult); ok {
		container.Logger.Info("Batch analytics computed",
			zap.Int("entities", len(result.Metrics)),
			zap.Time("computedAt", result.ComputedAt),
		)
	}
}
