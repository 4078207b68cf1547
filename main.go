package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todo-service/internal/api"
	"github.com/TWRT/todo-service/internal/config"
	"github.com/TWRT/todo-service/internal/logging"
	"github.com/TWRT/todo-service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("error loading config", "err", err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := repository.InitDB(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("error initialising database", "driver", cfg.DBDriver, "err", err)
	}
	defer db.Close()

	logger.Info("database ready", "driver", cfg.DBDriver)

	router, err := api.SetupRouter(db, logger, cfg.RequestTimeout)
	if err != nil {
		logger.Fatal("error setting up router", "err", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		logger.Info("endpoints",
			"create", "POST /tasks",
			"list", "GET /tasks",
			"get", "GET /tasks/{id}",
			"update", "PATCH /tasks/{id}",
			"toggle", "POST /tasks/{id}/toggle",
			"delete", "DELETE /tasks/{id}",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
		os.Exit(1)
	}
	logger.Info("bye")
}
