package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkravchenko/userhub/internal/config"
	"github.com/mkravchenko/userhub/internal/database"
	"github.com/mkravchenko/userhub/internal/handler"
	"github.com/mkravchenko/userhub/internal/logger"
	"github.com/mkravchenko/userhub/internal/middleware"
	"github.com/mkravchenko/userhub/internal/repository"
	"github.com/mkravchenko/userhub/internal/router"
	"github.com/mkravchenko/userhub/internal/server"
	"github.com/mkravchenko/userhub/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		// config.New exits on invalid config; this guards the contract.
		panic(err)
	}

	bootstrapLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	loggerService, err := logger.NewLoggerService(cfg.Observability, &bootstrapLog)
	if err != nil {
		bootstrapLog.Fatal().Err(err).Msg("failed to initialize logger service")
	}

	log := logger.New(cfg.Observability, loggerService)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, log, cfg); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}
	cancel()

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	// Handlers are registered by NewService; the worker and cron only
	// start once the whole dependency graph exists.
	if err := srv.Job.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start background jobs")
	}

	middlewares := middleware.NewMiddlewares(srv, services.Auth)
	handlers := handler.NewHandlers(srv, services)

	e := router.New(middlewares, handlers)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if loggerService != nil {
		loggerService.Shutdown(5 * time.Second)
	}

	log.Info().Msg("shutdown complete")
}
