package graph

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/environment"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// stepType is a linear statement printing its Label.
var stepType = &model.NodeType{
	Name:     "test.step",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Label", Kind: model.KindValue, Type: cty.String, Default: cty.StringVal("")}}
	},
	LowerStatement: func(_ model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		label := n.Value("Label").AsString()
		return func(f runtime.Frame) error { return f.Print(label) }, nil
	},
}

// forkType runs A or B depending on Cond and continues where they meet.
var forkType = &model.NodeType{
	Name:     "test.fork",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Cond", Kind: model.KindExpression, Type: cty.Bool, Order: 1, Default: cty.True},
			{Name: "A", Kind: model.KindStatement, Order: 2},
			{Name: "B", Kind: model.KindStatement, Order: 3},
		}
	},
	Successor: model.Successor{
		Kind: model.SuccessorBranch,
		Next: func(r model.Resolver, n *model.Node) model.StatementRef {
			shared, _ := FindNextSharedNode(r, n.Statement("A"), n.Statement("B"))
			return shared
		},
	},
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		cond, err := n.Expression("Cond").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		a, b, err := ctx.LowerBranches(n.Statement("A"), n.Statement("B"))
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) error {
			ok, err := runtime.Bool(f, cond)
			if err != nil {
				return err
			}
			if ok {
				return a(f)
			}
			return b(f)
		}, nil
	},
}

// selfType lowers itself while lowering, which must be caught.
var selfType = &model.NodeType{
	Name:     "test.self",
	Category: model.CategoryStatement,
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		return ctx.LowerStatement(n)
	},
}

// numberType reads a number variable.
var numberType = &model.NodeType{
	Name:     "test.number",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Source", Kind: model.KindVariable, Type: cty.Number}}
	},
	Result: func([]cty.Type) cty.Type { return cty.Number },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		return n.VariableRef("Source").ResolveRequiredGetter(ctx)
	},
}

func testRegistry() *registry.Registry {
	r := registry.New()
	for _, t := range []*model.NodeType{stepType, forkType, selfType, numberType} {
		r.RegisterNodeType(t)
	}
	return r
}

func testEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	b := environment.NewBuilder()
	require.NoError(t, b.ConfigureEntries(func(c *environment.EntryConfigurator) error {
		return c.Add("main", "Main", model.Parameter{Name: "count", Type: cty.Number})
	}))
	require.NoError(t, b.ConfigureLockedVariables(func(c *environment.LockedVariableConfigurator) error {
		return c.Add("Limit", cty.Number, cty.NumberIntVal(10))
	}))
	env, err := b.Build(testRegistry())
	require.NoError(t, err)
	return env
}

func newTestProgram(t *testing.T) *Program {
	t.Helper()
	return NewProgram(context.Background(), testEnvironment(t))
}

func (p *Program) mustStep(t *testing.T, label string) *model.Node {
	t.Helper()
	n, err := p.CreateNode(stepType.Name)
	require.NoError(t, err)
	require.NoError(t, n.SetValue("Label", cty.StringVal(label)))
	return n
}

// mustChain links the nodes through their Next slots.
func (p *Program) mustChain(t *testing.T, nodes ...*model.Node) {
	t.Helper()
	for i := 0; i+1 < len(nodes); i++ {
		require.NoError(t, p.Link(nodes[i].ID, model.NextProperty, nodes[i+1].ID))
	}
}

// recordFrame captures printed lines.
type recordFrame struct {
	vars  map[string]cty.Value
	lines []string
}

func newRecordFrame() *recordFrame {
	return &recordFrame{vars: map[string]cty.Value{}}
}

func (f *recordFrame) Variable(name string) (cty.Value, error) {
	v, ok := f.vars[strings.ToLower(name)]
	if !ok {
		return cty.NilVal, fmt.Errorf("no variable %s", name)
	}
	return v, nil
}

func (f *recordFrame) SetVariable(name string, v cty.Value) error {
	f.vars[strings.ToLower(name)] = v
	return nil
}

func (f *recordFrame) Print(line string) error {
	f.lines = append(f.lines, line)
	return nil
}

func run(t *testing.T, stmts []runtime.Stmt) []string {
	t.Helper()
	f := newRecordFrame()
	require.NoError(t, runtime.Block(stmts...)(f))
	return f.lines
}
