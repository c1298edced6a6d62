package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/environment"
	"github.com/vk/visualgrid/internal/graph"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// Frame is a runtime.Frame over its own variable store that records
// printed lines.
type Frame struct {
	Vars  *varstore.Store
	Lines []string
}

func (f *Frame) Variable(name string) (cty.Value, error) {
	return f.Vars.Value(name)
}

func (f *Frame) SetVariable(name string, v cty.Value) error {
	return f.Vars.Set(name, v)
}

func (f *Frame) Print(line string) error {
	f.Lines = append(f.Lines, line)
	return nil
}

// Harness is a program over a registry holding the given node packs.
type Harness struct {
	Ctx     context.Context
	Program *graph.Program
}

// NewHarness registers the modules and creates an empty program in the
// default environment.
func NewHarness(t *testing.T, modules ...registry.Module) *Harness {
	t.Helper()
	reg := registry.New()
	for _, m := range modules {
		m.Register(reg)
	}
	require.NoError(t, reg.Validate(context.Background()))
	ctx := context.Background()
	return &Harness{
		Ctx:     ctx,
		Program: graph.NewProgram(ctx, environment.Default(reg)),
	}
}

// Node creates a node and fails the test on error.
func (h *Harness) Node(t *testing.T, typeName string, typeArgs ...cty.Type) *model.Node {
	t.Helper()
	n, err := h.Program.CreateNode(typeName, typeArgs...)
	require.NoError(t, err)
	return n
}

// Link links candidate into property of target and fails the test on error.
func (h *Harness) Link(t *testing.T, target *model.Node, property string, candidate *model.Node) {
	t.Helper()
	require.NoError(t, h.Program.Link(target.ID, property, candidate.ID))
}

// Chain links the statements through their Next slots.
func (h *Harness) Chain(t *testing.T, nodes ...*model.Node) {
	t.Helper()
	for i := 0; i+1 < len(nodes); i++ {
		h.Link(t, nodes[i], model.NextProperty, nodes[i+1])
	}
}

// Variable declares a program variable and fails the test on error.
func (h *Harness) Variable(t *testing.T, name string, typ cty.Type, def cty.Value) {
	t.Helper()
	_, err := h.Program.AddVariable(name, typ, def)
	require.NoError(t, err)
}

// Run lowers the statement chain starting at start and runs it against a
// fresh copy of the program variables.
func (h *Harness) Run(start *model.Node) (*Frame, error) {
	l := graph.NewLowerer(h.Ctx, h.Program)
	s, err := l.LowerChain(model.StatementTo(start.ID))
	if err != nil {
		return nil, err
	}
	f := &Frame{Vars: h.Program.VariableStore().Clone()}
	return f, s(f)
}

// Eval lowers an expression node and evaluates it against a fresh copy of
// the program variables.
func (h *Harness) Eval(n *model.Node) (cty.Value, error) {
	l := graph.NewLowerer(h.Ctx, h.Program)
	e, err := l.LowerExpression(n)
	if err != nil {
		return cty.NilVal, err
	}
	return e(&Frame{Vars: h.Program.VariableStore().Clone()})
}
