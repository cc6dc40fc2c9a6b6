package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xpdash/internal/app"
	"xpdash/internal/config"
	"xpdash/internal/notify"
	"xpdash/internal/scheduler"
	"xpdash/internal/storage"
	"xpdash/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "xpdash failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("XPDASH_CONFIG"))
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	store, err := storage.Open(storage.Backend(cfg.Backend), cfg.DataDir)
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	a, err := app.New(app.Options{
		Store:            store,
		Engine:           engine,
		Notifier:         notify.New(cfg.DesktopNotifications, logger),
		Logger:           logger,
		UndoWindow:       time.Duration(cfg.UndoWindowSeconds) * time.Second,
		AutosaveInterval: time.Duration(cfg.AutosaveMinutes) * time.Minute,
	})
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	defer a.Close()

	program := tea.NewProgram(update.NewModel(a, engine), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newLogger writes structured logs to a file in the data directory; stderr is
// owned by the TUI.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "xpdash.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	return logger, func() { f.Close() }, nil
}

func logLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
