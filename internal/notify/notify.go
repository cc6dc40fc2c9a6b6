// Package notify delivers best-effort desktop notifications. Delivery
// failures are logged and swallowed; no caller depends on a notification
// having been shown.
package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Send(Notification) error
}

// Noop discards notifications. Used when desktop notifications are disabled.
type Noop struct{}

func (Noop) Send(Notification) error { return nil }

// Desktop shells out to the platform notification tool.
type Desktop struct{}

func (Desktop) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Logged wraps a notifier so delivery errors surface in the log instead of
// propagating to the caller.
type Logged struct {
	Inner  Notifier
	Logger *slog.Logger
}

func (l Logged) Send(n Notification) error {
	if err := l.Inner.Send(n); err != nil {
		logger := l.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("notification delivery failed", "title", n.Title, "error", err)
	}
	return nil
}

// New returns the configured notifier chain.
func New(desktopEnabled bool, logger *slog.Logger) Notifier {
	if !desktopEnabled {
		return Noop{}
	}
	return Logged{Inner: Desktop{}, Logger: logger}
}
