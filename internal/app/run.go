package app

import (
	"context"
	"fmt"

	"github.com/vk/visualgrid/internal/compiler"
	"github.com/vk/visualgrid/internal/contract"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/graph"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	a.startStatusServer()
	defer a.stopStatusServer()

	var err error
	switch a.config.Command {
	case CommandCatalog:
		err = a.runCatalog(ctx)
	case CommandCheck:
		err = a.runCheck(ctx)
	case CommandDemo:
		err = a.runDemo(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// runCatalog writes the node catalog of the environment as YAML.
func (a *App) runCatalog(ctx context.Context) error {
	catalog := a.env.Catalog()
	ctxlog.FromContext(ctx).Debug("Writing catalog.", "nodes", len(catalog.Nodes), "data_types", len(catalog.DataTypes))
	return catalog.WriteYAML(a.outW)
}

// runCheck compiles an empty program in the environment, which binds every
// declared entry and locked variable against the generic contract.
func (a *App) runCheck(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	p := graph.NewProgram(ctx, a.env)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("environment check failed: %w", err)
	}
	factory, err := compiler.Compile(ctx, p, contract.Generic(), compiler.WithRecorder(a.metrics))
	if err != nil {
		return fmt.Errorf("environment check failed: %w", err)
	}

	logger.Info("✅ Environment is valid.", "path", a.config.EnvPath)
	fmt.Fprintf(a.outW, "node types: %d\ndata types: %d\nentries: %d\nlocked variables: %d\n",
		len(a.env.NodeTypes()), len(a.env.DataTypes()), len(factory.Entries()), len(a.env.LockedVariables()))
	return nil
}
