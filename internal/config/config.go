package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	DBPath               string
	SessionPath          string
	RedisURL             string
	SessionTTL           time.Duration
	IDServiceURL         string
	IDTimeout            time.Duration
	ExportDir            string
	LogFile              string
	Debug                bool
	ToastTTL             time.Duration
	DesktopNotifications bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               filepath.Join(".tasktrack", "tasks.db"),
		SessionPath:          filepath.Join(os.TempDir(), "tasktrack-session.db"),
		SessionTTL:           12 * time.Hour,
		IDServiceURL:         "http://localhost:3000",
		IDTimeout:            2 * time.Second,
		ExportDir:            ".",
		ToastTTL:             3 * time.Second,
		DesktopNotifications: false,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKTRACK_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKTRACK_SESSION_PATH"); ok {
		cfg.SessionPath = v
	}
	if v, ok := getEnvString("TASKTRACK_REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := getEnvDuration("TASKTRACK_SESSION_TTL"); ok && v > 0 {
		cfg.SessionTTL = v
	}
	// An explicitly empty service URL means offline mode.
	if v, ok := os.LookupEnv("TASKTRACK_ID_SERVICE_URL"); ok {
		cfg.IDServiceURL = strings.TrimSpace(v)
	}
	if v, ok := getEnvDuration("TASKTRACK_ID_TIMEOUT"); ok && v > 0 {
		cfg.IDTimeout = v
	}
	if v, ok := getEnvString("TASKTRACK_EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := getEnvString("TASKTRACK_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("TASKTRACK_DEBUG"); ok {
		cfg.Debug = v
	}
	if v, ok := getEnvDuration("TASKTRACK_TOAST_TTL"); ok && v > 0 {
		cfg.ToastTTL = v
	}
	if v, ok := getEnvBool("TASKTRACK_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

type ServerConfig struct {
	Addr            string
	Generator       string
	ShutdownTimeout time.Duration
	Debug           bool
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":3000",
		Generator:       "ksuid",
		ShutdownTimeout: 10 * time.Second,
	}
}

func ServerConfigFromEnv(base ServerConfig) ServerConfig {
	cfg := base
	if v, ok := getEnvString("IDSERVER_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := getEnvString("IDSERVER_GENERATOR"); ok {
		cfg.Generator = strings.ToLower(v)
	}
	if v, ok := getEnvDuration("IDSERVER_SHUTDOWN_TIMEOUT"); ok && v > 0 {
		cfg.ShutdownTimeout = v
	}
	if v, ok := getEnvBool("IDSERVER_DEBUG"); ok {
		cfg.Debug = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getEnvDuration accepts Go durations ("750ms") or bare milliseconds.
func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	if ms, ok := getEnvInt(name); ok {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
