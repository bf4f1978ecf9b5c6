package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/config"
	"github.com/sandeepkv93/tasktrack/internal/idserver"
	"github.com/sandeepkv93/tasktrack/internal/logging"
)

func main() {
	cfg := config.ServerConfigFromEnv(config.DefaultServerConfig())

	logger, err := logging.NewServer(cfg.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	gen, err := idserver.GeneratorByName(cfg.Generator)
	if err != nil {
		logger.Fatal("invalid generator", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      idserver.NewRouter(idserver.NewHandler(gen, logger), logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("identifier service started", zap.String("addr", srv.Addr), zap.String("generator", cfg.Generator))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
