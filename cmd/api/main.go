package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"magicResume/internal/aiconfig"
	"magicResume/internal/api"
	"magicResume/internal/auth"
	"magicResume/internal/backend"
	"magicResume/internal/config"
	"magicResume/internal/directory"
	"magicResume/internal/notify"
	"magicResume/internal/persist"
	"magicResume/internal/resume"
	"magicResume/internal/syncdir"
)

const persistMaxRetry = 5

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open state backend: %v", err)
	}
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Error("close backends failed", slog.Any("error", err))
		}
	}()

	hub := notify.NewHub()

	var writer persist.Writer = persist.KVWriter{Store: backends.Store}
	if cfg.Persist.Mode == config.ModeQueue {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
		defer asynqClient.Close()
		writer = persist.NewTaskWriter(asynqClient, persistMaxRetry)
		go notify.RelayFromRedis(ctx, backends.Redis, hub, logger)
	}
	mirror := persist.NewMirror(writer, hub, logger, cfg.Persist.WriteTimeout)

	aiStore := aiconfig.NewStore(mirror)
	if err := aiStore.Hydrate(ctx, backends.Store); err != nil {
		logger.Warn("hydrate ai config failed, using defaults", slog.Any("error", err))
	}
	resumeStore := resume.NewStore(mirror)
	if err := resumeStore.Hydrate(ctx, backends.Store); err != nil {
		logger.Warn("hydrate resume failed, using defaults", slog.Any("error", err))
	}

	gateway := directory.NewGateway(backends.Store, directory.PathCodec{Root: cfg.Sync.AllowedRoot}, logger)
	exporter := syncdir.NewExporter(gateway, resumeStore, logger)

	var authService *auth.AuthService
	if cfg.Auth.Enabled() {
		authService, err = auth.NewAuthService(cfg.Auth.PasswordHash, cfg.Auth.TokenSecret, cfg.Auth.AccessTokenTTL)
		if err != nil {
			log.Fatalf("init auth service: %v", err)
		}
		logger.Info("owner login enabled")
	}

	router := api.NewRouter(logger)
	services := api.Services{
		AIConfig:              aiStore,
		Resume:                resumeStore,
		Gateway:               gateway,
		Exporter:              exporter,
		Hub:                   hub,
		AuthService:           authService,
		LoginRateLimitPerHour: cfg.Auth.LoginRateLimitPerHour,
		AllowedRoot:           cfg.Sync.AllowedRoot,
		AllowedOrigins:        cfg.API.AllowedOrigins,
		Logger:                logger,
	}
	if backends.Redis != nil {
		services.RateCounter = backends.Redis
	}
	api.RegisterRoutes(router, services)

	mirrorDone := make(chan struct{})
	mirrorCtx, stopMirror := context.WithCancel(context.Background())
	go func() {
		defer close(mirrorDone)
		mirror.Run(mirrorCtx)
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("api listening",
			slog.String("addr", server.Addr),
			slog.String("backend", cfg.Persist.Backend),
			slog.String("mode", cfg.Persist.Mode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.Any("error", err))
	}

	// Run 退出前会写出剩余快照。
	stopMirror()
	<-mirrorDone
}
