package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/config"
	"taskboard-api/internal/database"
	"taskboard-api/internal/handlers"
	"taskboard-api/internal/logging"
	"taskboard-api/internal/routes"
	"taskboard-api/internal/workspace"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	gin.SetMode(cfg.GinMode)

	// The store lives in memory; everything is gone when the process exits.
	db, err := database.Open(logging.GormLogger(logger, cfg.DBLogLevel))
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL)
	authService := auth.NewService(db, tokens, auth.NewSessionStore(), logger)
	workspaceService := workspace.NewService(db, logger)

	if cfg.SeedDemoUsers {
		if err := authService.SeedDemoUsers(ctx); err != nil {
			logger.Fatalf("seed users: %v", err)
		}
		logger.Info("demo users seeded")
	}

	go authService.Sessions().RunJanitor(ctx, cfg.SessionPurgeInterval, func(n int) {
		logger.WithField("count", n).Debug("expired sessions purged")
	})

	h := handlers.New(authService, workspaceService, logger)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: routes.SetupRoutes(h, authService, logger),
	}

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
