package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthbook/web/internal/cache"
	"healthbook/web/internal/config"
	"healthbook/web/internal/gateway"
	"healthbook/web/internal/handlers"
	"healthbook/web/internal/jobs"
	"healthbook/web/internal/log"
	"healthbook/web/internal/server"
	"healthbook/web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	backend := gateway.New(cfg.Backend)
	store := session.NewStore(backend, redisClient, &cfg.Security, logger)
	directory := cache.NewDirectory(redisClient, backend, cfg.Directory.CacheTTL, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, backend, redisClient, store, directory)
	httpServer := server.NewHTTPServer(cfg, logger, store, handlerSet)

	scheduler := jobs.NewScheduler(directory, cfg.Directory.WarmSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
