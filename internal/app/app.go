package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/visualgrid/internal/config"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/environment"
	"github.com/vk/visualgrid/internal/metrics"
	"github.com/vk/visualgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	model    *config.Model
	env      *environment.Environment
	metrics  *metrics.Recorder

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command output goes to
// outW and log lines to logW. It returns a fully initialized App, including
// its own isolated logger and registry, and panics when the registry or the
// environment cannot be set up.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All node packs registered.", "count", len(modules), "node_types", reg.Len())

	if err := reg.Validate(ctx); err != nil {
		// This is a programmer error in a node pack, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	var cfgModel *config.Model
	if cfg.EnvPath != "" {
		m, err := loader.Load(ctx, cfg.EnvPath)
		if err != nil {
			panic(fmt.Errorf("failed to load environment: %w", err))
		}
		cfgModel = m
		logger.Debug("Environment configuration loaded.", "path", cfg.EnvPath)
	}

	env, err := environment.FromModel(ctx, cfgModel, reg)
	if err != nil {
		panic(fmt.Errorf("failed to build environment: %w", err))
	}

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    cfgModel,
		env:      env,
		metrics:  metrics.New(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Environment returns the environment programs are built in.
func (a *App) Environment() *environment.Environment {
	return a.env
}

// Metrics returns the recorder shared by every compilation of this App.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}
