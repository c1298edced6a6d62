// Package flow provides branching and looping nodes.
package flow

import (
	"github.com/vk/visualgrid/internal/graph"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

const (
	IfType        = "flow.if"
	LoopType      = "flow.loop"
	RangeLoopType = "flow.range_loop"
	TernaryType   = "flow.ternary"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(ifNode)
	r.RegisterNodeType(loop)
	r.RegisterNodeType(rangeLoop)
	r.RegisterNodeType(ternary)
}

// ifNode has no Next slot. Whatever follows both branches is its successor,
// so the branches only carry the statements exclusive to them.
var ifNode = &model.NodeType{
	Name:     IfType,
	Label:    "If",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Condition", Kind: model.KindExpression, Type: cty.Bool, Order: 0},
			{Name: "TrueBranch", Label: "True", Kind: model.KindStatement, Order: 1},
			{Name: "FalseBranch", Label: "False", Kind: model.KindStatement, Order: 2},
		}
	},
	Successor: model.Successor{
		Kind: model.SuccessorBranch,
		Next: func(r model.Resolver, n *model.Node) model.StatementRef {
			shared, _ := graph.FindNextSharedNode(r, n.Statement("TrueBranch"), n.Statement("FalseBranch"))
			return shared
		},
	},
	LowerStatement: lowerIf,
}

func lowerIf(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
	cond, err := n.Expression("Condition").ResolveRequiredExpression(ctx)
	if err != nil {
		return nil, err
	}
	whenTrue, whenFalse, err := ctx.LowerBranches(n.Statement("TrueBranch"), n.Statement("FalseBranch"))
	if err != nil {
		return nil, err
	}
	return func(f runtime.Frame) error {
		ok, err := runtime.Bool(f, cond)
		if err != nil {
			return err
		}
		if ok {
			return whenTrue(f)
		}
		return whenFalse(f)
	}, nil
}

var loop = &model.NodeType{
	Name:     LoopType,
	Label:    "Loop",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Condition", Kind: model.KindExpression, Type: cty.Bool, Order: 0},
			{Name: "Body", Kind: model.KindStatement, Order: 1},
		}
	},
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		cond, err := n.Expression("Condition").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		body, err := ctx.LowerChain(n.Statement("Body"))
		if err != nil {
			return nil, err
		}
		return whileLoop(cond, body), nil
	},
}

// whileLoop checks cond before every run of body.
func whileLoop(cond runtime.Expr, body runtime.Stmt) runtime.Stmt {
	return func(f runtime.Frame) error {
		for {
			ok, err := runtime.Bool(f, cond)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := body(f); err != nil {
				return err
			}
		}
	}
}

var rangeLoop = &model.NodeType{
	Name:     RangeLoopType,
	Label:    "Range Loop",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Variable", Kind: model.KindVariable, Type: cty.Number, Order: 0},
			{Name: "Start", Kind: model.KindExpression, Type: cty.Number, Order: 1},
			{Name: "Change", Kind: model.KindExpression, Type: cty.Number, Order: 2, Default: cty.NumberIntVal(1)},
			{Name: "End", Kind: model.KindExpression, Type: cty.Number, Order: 3},
			{Name: "Body", Kind: model.KindStatement, Order: 4},
		}
	},
	LowerStatement: lowerRangeLoop,
}

// lowerRangeLoop counts the variable from Start to End inclusive. Without a
// Start the variable keeps its current value. A negative Change counts down.
func lowerRangeLoop(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
	variable := n.VariableRef("Variable")
	get, err := variable.ResolveRequiredGetter(ctx)
	if err != nil {
		return nil, err
	}
	set, err := variable.ResolveRequiredSetter(ctx)
	if err != nil {
		return nil, err
	}
	var start runtime.Expr
	if n.Expression("Start").HasValue() {
		if start, err = n.Expression("Start").ResolveRequiredExpression(ctx); err != nil {
			return nil, err
		}
	}
	change, err := n.Expression("Change").ResolveExpressionOr(ctx, cty.NumberIntVal(1))
	if err != nil {
		return nil, err
	}
	end, err := n.Expression("End").ResolveRequiredExpression(ctx)
	if err != nil {
		return nil, err
	}
	body, err := ctx.LowerChain(n.Statement("Body"))
	if err != nil {
		return nil, err
	}

	cond := func(f runtime.Frame) (cty.Value, error) {
		step, err := runtime.Number(f, change)
		if err != nil {
			return cty.NilVal, err
		}
		cur, err := runtime.Number(f, get)
		if err != nil {
			return cty.NilVal, err
		}
		limit, err := runtime.Number(f, end)
		if err != nil {
			return cty.NilVal, err
		}
		if step.GreaterThanOrEqualTo(cty.Zero).True() {
			return cur.LessThanOrEqualTo(limit), nil
		}
		return cur.GreaterThanOrEqualTo(limit), nil
	}
	advance := func(f runtime.Frame) error {
		step, err := runtime.Number(f, change)
		if err != nil {
			return err
		}
		cur, err := runtime.Number(f, get)
		if err != nil {
			return err
		}
		return set(f, cur.Add(step))
	}

	loop := whileLoop(cond, runtime.Block(body, advance))
	if start == nil {
		return loop, nil
	}
	return func(f runtime.Frame) error {
		v, err := start(f)
		if err != nil {
			return err
		}
		if err := set(f, v); err != nil {
			return err
		}
		return loop(f)
	}, nil
}

var ternary = &model.NodeType{
	Name:       TernaryType,
	Label:      "Ternary",
	Category:   model.CategoryExpression,
	TypeParams: 1,
	Properties: func(args []cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Condition", Kind: model.KindExpression, Type: cty.Bool, Order: -1},
			{Name: "A", Kind: model.KindExpression, Type: args[0]},
			{Name: "B", Kind: model.KindExpression, Type: args[0]},
		}
	},
	Result: func(args []cty.Type) cty.Type { return args[0] },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		cond, err := n.Expression("Condition").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		a, err := n.Expression("A").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		b, err := n.Expression("B").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) (cty.Value, error) {
			ok, err := runtime.Bool(f, cond)
			if err != nil {
				return cty.NilVal, err
			}
			if ok {
				return a(f)
			}
			return b(f)
		}, nil
	},
}
