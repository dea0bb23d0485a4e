package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"magicResume/internal/backend"
	"magicResume/internal/config"
	"magicResume/internal/metrics"
	"magicResume/internal/notify"
	"magicResume/internal/tasks"
	"magicResume/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	if cfg.Persist.Mode != config.ModeQueue {
		log.Fatalf("worker requires PERSIST_MODE=%s, got %q", config.ModeQueue, cfg.Persist.Mode)
	}

	backends, err := backend.Open(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("open state backend: %v", err)
	}
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Error("close backends failed", slog.Any("error", err))
		}
	}()

	redisAddr := cfg.Redis.Addr()
	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{tasks.QueuePersist: 1},
	})

	persistHandler := worker.NewPersistTaskHandler(backends.Store, notify.NewRedisPublisher(backends.Redis), logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeStatePersist, persistHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", redisAddr),
		slog.String("backend", cfg.Persist.Backend),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
