package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/comfyargs/internal/ctxlog"
	"github.com/vk/comfyargs/internal/options"
	"github.com/vk/comfyargs/internal/store"
)

// App owns the option store for one process. Commands resolve options
// through it and receive the resulting option set; the set is also printed
// to the App's output as JSON.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	store  *store.Store
}

// New returns an App persisting to cfg.StorePath and logging to logW.
// commandLine is the source used when Show finds no persisted document.
func New(outW, logW io.Writer, cfg *Config, commandLine options.Source) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "level", cfg.LogLevel, "format", cfg.LogFormat)

	return &App{
		outW:   outW,
		logger: logger,
		store:  store.New(cfg.StorePath, commandLine),
	}
}

// Store returns the application's store.
func (a *App) Store() *store.Store {
	return a.store
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Parse resolves src, persists the result and prints it.
func (a *App) Parse(ctx context.Context, src options.Source) (*options.Options, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	opts, err := a.store.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Options parsed and persisted.", "path", a.store.Path())
	return opts, a.print(opts)
}

// Show loads the persisted options and prints them.
func (a *App) Show(ctx context.Context) (*options.Options, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	opts, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return opts, a.print(opts)
}

// Set applies the HCL override files at paths as a complete option
// mapping, persists the result and prints it.
func (a *App) Set(ctx context.Context, paths ...string) (*options.Options, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	overrides, err := options.LoadHCLOverrides(paths...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Override files decoded.", "paths", paths, "count", len(overrides))

	opts, err := a.store.SetWithOverrides(ctx, overrides)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Overrides applied and persisted.", "path", a.store.Path())
	return opts, a.print(opts)
}

func (a *App) print(opts *options.Options) error {
	data, err := opts.Encode()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	if _, err := a.outW.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}
