package compiler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/visualgrid/internal/contract"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/graph"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// State is the lifecycle of a Compiler.
type State int

const (
	Uncompiled State = iota
	Compiling
	Compiled
)

func (s State) String() string {
	switch s {
	case Uncompiled:
		return "uncompiled"
	case Compiling:
		return "compiling"
	case Compiled:
		return "compiled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Compiler compiles one program against one contract. Once compiled it
// keeps returning the same factory. A failed attempt returns it to
// Uncompiled so the program can be fixed and compiled again.
type Compiler[C any] struct {
	program  *graph.Program
	contract contract.Contract[C]
	opts     options

	state   State
	factory *Factory[C]
}

// New prepares a compiler. Nothing is compiled until Compile is called.
func New[C any](p *graph.Program, c contract.Contract[C], opts ...Option) *Compiler[C] {
	return &Compiler[C]{
		program:  p,
		contract: c,
		opts:     newOptions(opts),
	}
}

// Compile is shorthand for New(p, c, opts...).Compile(ctx).
func Compile[C any](ctx context.Context, p *graph.Program, c contract.Contract[C], opts ...Option) (*Factory[C], error) {
	return New(p, c, opts...).Compile(ctx)
}

// State reports where the compiler is in its lifecycle.
func (c *Compiler[C]) State() State {
	return c.state
}

// Compile lowers every entry of the environment and binds the contract.
func (c *Compiler[C]) Compile(ctx context.Context) (*Factory[C], error) {
	if c.state == Compiled {
		return c.factory, nil
	}
	logger := ctxlog.FromContext(ctx)
	c.setState(ctx, Compiling)
	start := time.Now()

	f, err := c.compile(ctx)
	c.opts.recorder.ObserveCompile(time.Since(start), err)
	if err != nil {
		c.setState(ctx, Uncompiled)
		logger.Error("Compilation failed.", "error", err)
		return nil, err
	}
	c.factory = f
	c.setState(ctx, Compiled)
	logger.Info("✅ Program compiled.", "entries", len(f.entries), "variables", f.vars.Len(), "duration", time.Since(start))
	return f, nil
}

func (c *Compiler[C]) setState(ctx context.Context, s State) {
	ctxlog.FromContext(ctx).Debug("Compiler state changed.", "from", c.state.String(), "to", s.String())
	c.state = s
}

func (c *Compiler[C]) compile(ctx context.Context) (*Factory[C], error) {
	if err := c.contract.Validate(); err != nil {
		return nil, err
	}
	p := c.program
	l := graph.NewLowerer(ctx, p)

	entries := make(map[string]*entry)
	for _, def := range p.Environment().Entries() {
		e, err := c.compileEntry(ctx, l, def)
		if err != nil {
			return nil, fmt.Errorf("entry '%s': %w", def.ID, err)
		}
		entries[strings.ToLower(def.ID)] = e
	}

	if err := c.bindContract(); err != nil {
		return nil, err
	}

	return &Factory[C]{
		ctx:      ctx,
		contract: c.contract,
		opts:     c.opts,
		entries:  entries,
		vars:     p.VariableStore().Clone(),
	}, nil
}

// compileEntry builds the callable for one entry definition. Entries without
// a node or without a first statement do nothing when invoked.
func (c *Compiler[C]) compileEntry(ctx context.Context, l *graph.Lowerer, def model.EntryDefinition) (*entry, error) {
	logger := ctxlog.FromContext(ctx)
	e := &entry{def: def, body: runtime.Noop}

	n, ok := c.program.EntryNode(def.ID)
	if !ok || !n.Statement(model.FirstStatementProperty).HasValue() {
		logger.Debug("Entry has no body, compiling to a no-op.", "entry", def.ID)
		return e, nil
	}

	for _, param := range def.Parameters {
		name := n.Entry().Parameters[param.Name]
		if name == "" {
			e.targets = append(e.targets, "")
			continue
		}
		v, ok := c.program.Variable(name)
		if !ok {
			return nil, fmt.Errorf("%w: parameter '%s' maps to missing variable '%s'", model.ErrBrokenLink, param.Name, name)
		}
		if !v.Type.Equals(param.Type) {
			return nil, fmt.Errorf("%w: parameter '%s' is %s, variable '%s' is %s", model.ErrTypeMismatch, param.Name, model.TypeName(param.Type), v.Name, model.TypeName(v.Type))
		}
		e.targets = append(e.targets, v.Name)
	}

	body, err := l.LowerChain(n.Statement(model.FirstStatementProperty))
	if err != nil {
		return nil, err
	}
	e.body = body
	logger.Debug("Entry compiled.", "entry", def.ID, "statements", len(graph.Chain(c.program, n.Statement(model.FirstStatementProperty))))
	return e, nil
}

// bindContract checks every contract member against the program.
func (c *Compiler[C]) bindContract() error {
	env := c.program.Environment()
	for _, m := range c.contract.Methods {
		def, ok := env.Entry(m.Name)
		if !ok {
			return fmt.Errorf("%w: contract method '%s' has no entry", model.ErrUnknownEntry, m.Name)
		}
		if !sameTypes(m.Params, def.ParameterTypes()) {
			return fmt.Errorf("%w: contract method '%s' takes %s, entry '%s' takes %s", model.ErrTypeMismatch, m.Name, typeList(m.Params), def.ID, typeList(def.ParameterTypes()))
		}
	}
	for _, prop := range c.contract.Properties {
		v, ok := c.program.Variable(prop.Name)
		if !ok {
			return fmt.Errorf("%w: contract property '%s' has no variable", model.ErrUnknownVariable, prop.Name)
		}
		if !v.Type.Equals(prop.Type) {
			return fmt.Errorf("%w: contract property '%s' is %s, variable '%s' is %s", model.ErrTypeMismatch, prop.Name, model.TypeName(prop.Type), v.Name, model.TypeName(v.Type))
		}
	}
	return nil
}

// entry is a compiled entry point.
type entry struct {
	def model.EntryDefinition
	// targets holds, per parameter, the variable it initializes or "".
	targets []string
	body    runtime.Stmt
}

// run checks args against the parameter types, copies them into their mapped
// variables and runs the body.
func (e *entry) run(f runtime.Frame, args []cty.Value) error {
	if len(args) != len(e.def.Parameters) {
		return fmt.Errorf("%w: entry '%s' takes %d arguments, got %d", model.ErrTypeMismatch, e.def.ID, len(e.def.Parameters), len(args))
	}
	for i, param := range e.def.Parameters {
		if err := model.CheckValue(param.Type, args[i]); err != nil {
			return fmt.Errorf("argument '%s' of entry '%s': %w", param.Name, e.def.ID, err)
		}
		if i < len(e.targets) && e.targets[i] != "" {
			if err := f.SetVariable(e.targets[i], args[i]); err != nil {
				return err
			}
		}
	}
	return e.body(f)
}

func sameTypes(a, b []cty.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func typeList(ts []cty.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = model.TypeName(t)
	}
	return "(" + strings.Join(names, ", ") + ")"
}
