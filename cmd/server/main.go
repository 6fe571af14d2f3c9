package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventsphere/internal/api"
	"eventsphere/internal/app/service"
	"eventsphere/internal/app/worker"
	"eventsphere/internal/common/security"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/cache"
	"eventsphere/internal/platform/config"
	"eventsphere/internal/platform/database"
	"eventsphere/internal/platform/executor"
	"eventsphere/internal/platform/logger"
	"eventsphere/internal/platform/queue"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// 1. Configuration and logging
	config.Load()
	cfg := config.AppConfig
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		logger.Fatal(ctx, "Invalid logger configuration: "+err.Error())
	}
	defer logger.Sync()

	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	// 2. Storage
	database.Connect()
	defer database.Close()
	if err := database.Migrate(ctx, database.DB); err != nil {
		logger.Fatal(ctx, "Schema migration failed", zap.Error(err))
	}

	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 3. Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	questionRepo := repository.NewPgQuestionRepository(database.DB)
	participantRepo := repository.NewPgParticipantRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	standingsRepo := repository.NewRedisStandingsRepository(queue.RDB)

	// 4. Services
	pistonClient := executor.NewClient(executor.Config{
		BaseURL:    cfg.PistonURL,
		Timeout:    cfg.PistonTimeout,
		RunTimeout: cfg.PistonRunTimeout,
	})
	submissionEvents := queue.NewListQueue(queue.RDB, cfg.SubmissionEventsQueue)

	authService := service.NewAuthService(userRepo)
	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal(ctx, "Admin seed failed", zap.Error(err))
	}

	evaluator := service.NewEvaluationService(participantRepo, questionRepo, pistonClient, service.EvaluationOptions{
		CaseTimeout: cfg.EvalCaseTimeout,
		Parallelism: cfg.EvalParallelism,
	})
	writer := service.NewSubmissionWriter(submissionRepo, participantRepo, submissionEvents)
	practiceService := service.NewPracticeService(pistonClient, questionRepo, cache.NewRateLimiter(queue.RDB, "ratelimit:"), service.PracticeOptions{
		RateLimit:   cfg.PracticeRateLimit,
		RateWindow:  cfg.PracticeWindow,
		CaseTimeout: cfg.EvalCaseTimeout,
	})

	services := api.Services{
		Auth:       authService,
		Contest:    service.NewContestService(contestRepo, participantRepo, standingsRepo),
		Question:   service.NewQuestionService(questionRepo, contestRepo, database.DB),
		Submission: service.NewSubmissionService(evaluator, writer, submissionRepo),
		Practice:   practiceService,
		Runtime:    service.NewRuntimeService(pistonClient, cache.NewJSONCache(queue.RDB), cfg.RuntimesCacheTTL),
	}

	// 5. Standings worker, unless cmd/worker runs it separately
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	workerDone := make(chan struct{})
	if cfg.InlineStandingsWorker {
		standingsWorker := worker.NewStandingsWorker(submissionEvents, standingsRepo)
		go func() {
			defer close(workerDone)
			standingsWorker.Start(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	// 6. HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(services),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "Server starting", zap.String("port", cfg.APIPort), zap.String("piston_url", cfg.PistonURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "Could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop

	logger.Info(ctx, "Shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown failed", zap.Error(err))
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn(ctx, "Standings worker did not stop in time")
	}
	logger.Info(ctx, "Server and worker stopped")
}
