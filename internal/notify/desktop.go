package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// sendTimeout bounds a single notify-send or osascript run.
const sendTimeout = 5 * time.Second

type DesktopNotifier interface {
	Send(Toast) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Toast) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(t Toast) error {
	title := "tasktrack: " + string(t.Level)
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	switch runtime.GOOS {
	case "linux":
		return exec.CommandContext(ctx, "notify-send", title, t.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(t.Message), escapeAppleScript(title))
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// DesktopFor picks the exec notifier when enabled.
func DesktopFor(enabled bool) DesktopNotifier {
	if enabled {
		return ExecDesktopNotifier{}
	}
	return NoopDesktopNotifier{}
}
