package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type Exporter interface {
	Export(ctx context.Context, tasks []model.Task, now time.Time) (string, error)
}

// FileExporter writes todo-tasks-YYYY-MM-DD.json into Dir.
type FileExporter struct {
	Dir string
}

func ExportFileName(now time.Time) string {
	return "todo-tasks-" + now.Format("2006-01-02") + ".json"
}

func (e FileExporter) Export(ctx context.Context, tasks []model.Task, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	payload, err := sonic.ConfigStd.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".todo-tasks-*.tmp")
	if err != nil {
		return "", fmt.Errorf("export: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("export: chmod: %w", err)
	}
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		tmp.Close()
		return "", fmt.Errorf("export: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("export: close: %w", err)
	}

	path := filepath.Join(dir, ExportFileName(now))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("export: rename: %w", err)
	}
	return path, nil
}
