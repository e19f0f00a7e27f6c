package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/keeper/internal/config"
	"github.com/five82/keeper/internal/prefs"
	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/ui"
	"github.com/five82/keeper/internal/zoo"
)

// Options configure the keeper application. Non-empty fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/keeper/prefs.toml
	APIURL     string
	LogFile    string
	Debug      bool
}

// Run boots the keeper TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("ignoring unreadable prefs", "error", err)
	}

	client, err := zoo.NewClient(cfg.APIURL, zoo.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init zoo client: %w", err)
	}

	logger.Info("keeper starting", "api", client.BaseURL(), "timeout", cfg.RequestTimeout)

	app := state.New(
		state.WithLogger(logger),
		state.WithNoticeTTL(cfg.NoticeTTL),
	)

	err = ui.Run(ui.Options{
		Context:    ctx,
		Client:     client,
		State:      app,
		Config:     &cfg,
		Logger:     logger,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		ShowDetail: userPrefs.ShowDetail,
	})
	if err != nil {
		logger.Error("ui exited", "error", err)
		return err
	}
	logger.Info("keeper stopped")
	return nil
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load keeper config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return config.Config{}, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	return cfg, nil
}

// openLogger sends slog text records to path. The TUI owns the terminal,
// so nothing is ever written to stderr while it runs.
func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, handlerOpts))
	return logger, func() { _ = file.Close() }, nil
}
