package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/config"
	"github.com/sandeepkv93/tasktrack/internal/idsource"
	"github.com/sandeepkv93/tasktrack/internal/logging"
	"github.com/sandeepkv93/tasktrack/internal/notify"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"github.com/sandeepkv93/tasktrack/internal/store"
	"github.com/sandeepkv93/tasktrack/internal/tracker"
	"github.com/sandeepkv93/tasktrack/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tasktrack failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())

	logger, err := logging.NewFile(cfg.LogFile, cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	durable, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open task database: %w", err)
	}
	defer durable.Close()

	session, err := openSession(cfg, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer session.Close()

	toasts := notify.NewCenter(cfg.ToastTTL,
		notify.WithDesktop(notify.DesktopFor(cfg.DesktopNotifications)),
		notify.WithLogger(logger))
	defer toasts.Close()

	m := update.NewModel(update.Options{
		Tasks:    store.NewTaskStore(durable, logger),
		Drafts:   store.NewDraftStore(session, logger),
		IDs:      idsource.NewHTTPSource(cfg.IDServiceURL, cfg.IDTimeout, logger),
		Toasts:   toasts,
		Exporter: tracker.FileExporter{Dir: cfg.ExportDir},
		Logger:   logger,
	})

	fields := []zap.Field{
		zap.String("db", cfg.DBPath),
		zap.Bool("redis_session", cfg.RedisURL != ""),
		zap.String("id_service", cfg.IDServiceURL),
	}
	if saved, err := durable.UpdatedAt(context.Background(), store.TasksKey); err == nil {
		fields = append(fields, zap.Time("tasks_saved_at", saved))
	}
	logger.Info("tasktrack started", fields...)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// openSession prefers Redis so the draft expires with the session TTL. The
// SQLite fallback lives in the temp directory and does not survive a reboot.
func openSession(cfg config.RuntimeConfig, logger *zap.Logger) (storage.KV, error) {
	if cfg.RedisURL != "" {
		kv, err := storage.OpenRedis(context.Background(), cfg.RedisURL, "tasktrack:", cfg.SessionTTL)
		if err == nil {
			return kv, nil
		}
		logger.Warn("redis session store unavailable, falling back to sqlite", zap.Error(err))
	}
	return storage.OpenSQLite(cfg.SessionPath)
}
