package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/cmd"
	"github.com/arbiter-ai/arbiter/internal/backend/openaicompat"
	"github.com/arbiter-ai/arbiter/internal/config"
	"github.com/arbiter-ai/arbiter/internal/core/services"
	"github.com/arbiter-ai/arbiter/internal/events"
	"github.com/arbiter-ai/arbiter/internal/logger"
	"github.com/arbiter-ai/arbiter/internal/modeldata"
	"github.com/arbiter-ai/arbiter/internal/platform/otel"
	"github.com/arbiter-ai/arbiter/internal/server"
	"github.com/arbiter-ai/arbiter/internal/server/validator"
	v1 "github.com/arbiter-ai/arbiter/internal/server/v1"
	"github.com/arbiter-ai/arbiter/internal/store"
	"github.com/arbiter-ai/arbiter/internal/store/cache"
	"github.com/arbiter-ai/arbiter/internal/store/memory"
	"github.com/arbiter-ai/arbiter/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Initialize(logger.DefaultConfig())
	log := logger.Get()
	defer logger.Sync()

	cmd.CheckForUpdates()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracer, err := otel.InitTracer("arbiter", log, os.Stdout)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	// Persistence
	var repo store.Repository
	switch cfg.Store.Driver {
	case "sqlite":
		repo, err = sqlite.NewSQLiteStorage(cfg.Store.DSN)
		if err != nil {
			log.Fatal("failed to open sqlite store", zap.Error(err))
		}
	default:
		repo = memory.NewMemoryRepository()
	}
	defer func() {
		_ = repo.Close()
	}()
	recorder := store.NewRecorder(repo)

	// Cache
	var cacheSvc cache.CacheService = cache.NewNoopCache()
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, falling back to noop cache", zap.Error(err))
		} else {
			cacheSvc = redisCache
			defer func() {
				_ = redisCache.Close()
			}()
		}
	}

	// Event pipeline
	dispatcher := events.NewDispatcher(log, 1024)
	dispatcher.Subscribe(events.LogSubscriber(log))
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// Engines
	router := services.NewRouterEngine(log, dispatcher, recorder, services.RouterOptions{
		StrictProviders: cfg.Router.StrictProviders,
		MaxAttempts:     cfg.Router.MaxAttempts,
		InferTimeout:    cfg.Router.InferTimeout,
	})
	seal := services.NewSealEngine(log, dispatcher, recorder)
	seal.RegisterDefaultPolicy()

	// Starter catalog so the router can answer before any registration.
	for _, desc := range modeldata.KnownModels {
		router.RegisterModel(desc)
	}

	// Bind configured backends to their descriptors.
	for _, b := range cfg.Backends {
		if !b.Enabled {
			continue
		}
		if b.APIKey == "" {
			log.Warn("skipping backend with empty api key", zap.String("backend", b.ID))
			continue
		}
		router.BindBackend(b.Model, openaicompat.NewAdapter(b))
		log.Info("bound backend", zap.String("backend", b.ID), zap.String("model", b.Model))
	}

	handler := v1.NewHandler(router, seal, cacheSvc, validator.New(), log, cmd.AppVersion)
	srv := server.New(cfg, log, handler)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("store", cfg.Store.Driver),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
