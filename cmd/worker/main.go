package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"eventsphere/internal/app/worker"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/config"
	"eventsphere/internal/platform/logger"
	"eventsphere/internal/platform/queue"
)

// Standalone standings consumer. Run it with INLINE_STANDINGS_WORKER=false
// on the API servers so each event is consumed by one process type.
func main() {
	config.Load()
	cfg := config.AppConfig
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		logger.Fatal(context.Background(), "Invalid logger configuration: "+err.Error())
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	queue.ConnectRedis()
	defer queue.CloseRedis()

	events := queue.NewListQueue(queue.RDB, cfg.SubmissionEventsQueue)
	w := worker.NewStandingsWorker(events, repository.NewRedisStandingsRepository(queue.RDB))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start(ctx)
	}()

	<-sigs
	logger.Info(ctx, "Shutdown signal received")
	cancel()

	wg.Wait()
	logger.Info(ctx, "Worker exited cleanly")
}
