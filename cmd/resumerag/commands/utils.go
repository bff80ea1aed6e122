package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resumerag/internal/app"
	"resumerag/internal/config"
	"resumerag/internal/logging"
)

// loadConfig resolves the configuration from --config or the default locations.
func loadConfig() (*config.AppConfig, error) {
	config.LoadDotEnv()
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	level := cfg.Logging.Level
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	return logging.New(level, cfg.Logging.Format)
}

// buildApp loads configuration and wires the pipeline. Callers must Close the app.
func buildApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Logger.Warn("failed to close vector store", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
