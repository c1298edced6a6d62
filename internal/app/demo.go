package app

import (
	"context"
	"fmt"

	"github.com/vk/visualgrid/internal/compiler"
	"github.com/vk/visualgrid/internal/config"
	"github.com/vk/visualgrid/internal/contract"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/editorlink"
	"github.com/vk/visualgrid/internal/environment"
	"github.com/vk/visualgrid/internal/graph"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/modules/debug"
	"github.com/vk/visualgrid/modules/flow"
	"github.com/vk/visualgrid/modules/text"
	"github.com/vk/visualgrid/modules/variables"
	"github.com/zclconf/go-cty/cty"
)

const (
	demoEntry    = "main"
	demoGreeting = "Hello from visualgrid!"
)

// runDemo builds a small program in the environment, compiles it and invokes
// its main entry. The program prints a greeting, then counts i from 1 to 3.
func (a *App) runDemo(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	env, err := a.demoEnvironment(ctx)
	if err != nil {
		return err
	}
	p, err := buildDemoProgram(ctx, env)
	if err != nil {
		return fmt.Errorf("failed to build demo program: %w", err)
	}
	logger.Debug("Demo program built.", "nodes", len(p.Nodes()))

	opts := []compiler.Option{
		compiler.WithOutput(a.outW),
		compiler.WithRecorder(a.metrics),
	}
	if a.config.EditorURL != "" {
		pub, err := editorlink.Dial(ctx, editorlink.Config{URL: a.config.EditorURL})
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, compiler.WithPublisher(pub))
	}

	factory, err := compiler.Compile(ctx, p, contract.Generic(), opts...)
	if err != nil {
		return err
	}
	prog, err := factory.CreateProgram()
	if err != nil {
		return err
	}

	logger.Info("🚀 Invoking demo program.", "entry", demoEntry)
	if err := prog.Invoke(demoEntry); err != nil {
		return fmt.Errorf("demo program failed: %w", err)
	}
	logger.Info("🏁 Demo program finished.")
	return nil
}

// demoEnvironment is the app environment, extended with the main entry when
// the loaded configuration does not declare it.
func (a *App) demoEnvironment(ctx context.Context) (*environment.Environment, error) {
	if _, ok := a.env.Entry(demoEntry); ok {
		return a.env, nil
	}
	m := &config.Model{}
	m.Merge(a.model)
	m.Entries = append(m.Entries, &config.EntryDefinition{ID: demoEntry, Name: "Main"})
	return environment.FromModel(ctx, m, a.registry)
}

func buildDemoProgram(ctx context.Context, env *environment.Environment) (*graph.Program, error) {
	p := graph.NewProgram(ctx, env)
	if _, err := p.AddVariable("i", cty.Number, cty.Zero); err != nil {
		return nil, err
	}

	greeting, err := p.CreateNode(variables.LiteralType, cty.String)
	if err != nil {
		return nil, err
	}
	if err := greeting.SetValue("Value", cty.StringVal(demoGreeting)); err != nil {
		return nil, err
	}
	greet, err := p.CreateNode(debug.PrintType)
	if err != nil {
		return nil, err
	}

	loop, err := p.CreateNode(flow.RangeLoopType)
	if err != nil {
		return nil, err
	}
	if err := p.SetVariableRef(loop.ID, "Variable", "i"); err != nil {
		return nil, err
	}
	if err := loop.SetLiteral("Start", cty.NumberIntVal(1)); err != nil {
		return nil, err
	}
	if err := loop.SetLiteral("End", cty.NumberIntVal(3)); err != nil {
		return nil, err
	}

	get, err := p.CreateNode(variables.GetType, cty.Number)
	if err != nil {
		return nil, err
	}
	if err := p.SetVariableRef(get.ID, "Variable", "i"); err != nil {
		return nil, err
	}
	str, err := p.CreateNode(text.ToStringType, cty.Number)
	if err != nil {
		return nil, err
	}
	count, err := p.CreateNode(debug.PrintType)
	if err != nil {
		return nil, err
	}

	entry, err := p.CreateEntry(demoEntry)
	if err != nil {
		return nil, err
	}

	links := []struct {
		target    *model.Node
		property  string
		candidate *model.Node
	}{
		{greet, "Value", greeting},
		{str, "Value", get},
		{count, "Value", str},
		{loop, "Body", count},
		{greet, model.NextProperty, loop},
		{entry, model.FirstStatementProperty, greet},
	}
	for _, l := range links {
		if err := p.Link(l.target.ID, l.property, l.candidate.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}
