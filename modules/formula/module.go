// Package formula provides an expression node whose value is computed by a
// CEL expression over the program variables.
//
// Number variables are visible to the expression as doubles, string and bool
// variables as strings and bools. Variables of other types, and variables
// whose names are not CEL identifiers, are not visible. The expression is
// compiled and type checked once, when the program is compiled.
package formula

import (
	"fmt"
	"math"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// CELType is the registered node type name.
const CELType = "formula.cel"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(celNode)
}

var celNode = &model.NodeType{
	Name:       CELType,
	Label:      "Formula",
	Category:   model.CategoryExpression,
	TypeParams: 1,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Source", Kind: model.KindValue, Type: cty.String}}
	},
	Result:          func(args []cty.Type) cty.Type { return args[0] },
	LowerExpression: lower,
}

var (
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reserved   = map[string]struct{}{
		"true": {}, "false": {}, "null": {}, "in": {}, "as": {}, "break": {}, "const": {},
		"continue": {}, "else": {}, "for": {}, "function": {}, "if": {}, "import": {},
		"let": {}, "loop": {}, "package": {}, "namespace": {}, "return": {}, "var": {},
		"void": {}, "while": {},
	}
)

func celType(t cty.Type) (*cel.Type, bool) {
	switch {
	case t.Equals(cty.Number):
		return cel.DoubleType, true
	case t.Equals(cty.String):
		return cel.StringType, true
	case t.Equals(cty.Bool):
		return cel.BoolType, true
	}
	return nil, false
}

func lower(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
	src := n.Value("Source").AsString()
	if src == "" {
		return nil, fmt.Errorf("%w: formula has no source", model.ErrBrokenLink)
	}
	result := n.ResultType()
	want, ok := celType(result)
	if !ok {
		return nil, fmt.Errorf("%w: formulas cannot produce %s", model.ErrTypeMismatch, model.TypeName(result))
	}

	var opts []cel.EnvOption
	var names []string
	for _, v := range ctx.Variables() {
		t, ok := celType(v.Type)
		if !ok || !identifier.MatchString(v.Name) {
			continue
		}
		if _, bad := reserved[v.Name]; bad {
			continue
		}
		opts = append(opts, cel.Variable(v.Name, t))
		names = append(names, v.Name)
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("formula %q: %w", src, iss.Err())
	}
	if !outputMatches(ast.OutputType(), want) {
		return nil, fmt.Errorf("%w: formula %q produces %s, expected %s", model.ErrTypeMismatch, src, ast.OutputType(), want)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	ctxlog.FromContext(ctx.Context()).Debug("Formula compiled.", "node", n.String(), "source", src, "variables", len(names))

	return func(f runtime.Frame) (cty.Value, error) {
		activation := make(map[string]any, len(names))
		for _, name := range names {
			v, err := f.Variable(name)
			if err != nil {
				return cty.NilVal, err
			}
			native, err := toNative(v)
			if err != nil {
				return cty.NilVal, fmt.Errorf("variable '%s': %w", name, err)
			}
			activation[name] = native
		}
		out, _, err := prg.Eval(activation)
		if err != nil {
			return cty.NilVal, fmt.Errorf("formula %q: %w", src, err)
		}
		return fromNative(out.Value(), result)
	}, nil
}

func outputMatches(got, want *cel.Type) bool {
	if got.IsExactType(want) || got.IsExactType(cel.DynType) {
		return true
	}
	// Integer results are accepted for numbers.
	return want.IsExactType(cel.DoubleType) && (got.IsExactType(cel.IntType) || got.IsExactType(cel.UintType))
}

func toNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	switch {
	case v.Type().Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case v.Type().Equals(cty.String):
		return v.AsString(), nil
	case v.Type().Equals(cty.Bool):
		return v.True(), nil
	}
	return nil, fmt.Errorf("%s values are not supported", v.Type().FriendlyName())
}

func fromNative(x any, want cty.Type) (cty.Value, error) {
	var v cty.Value
	switch x := x.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return cty.NilVal, fmt.Errorf("formula result %v is not a finite number", x)
		}
		v = cty.NumberFloatVal(x)
	case int64:
		v = cty.NumberIntVal(x)
	case uint64:
		v = cty.NumberUIntVal(x)
	case string:
		v = cty.StringVal(x)
	case bool:
		v = cty.BoolVal(x)
	default:
		return cty.NilVal, fmt.Errorf("%w: unsupported formula result %T", model.ErrTypeMismatch, x)
	}
	if !v.Type().Equals(want) {
		return cty.NilVal, fmt.Errorf("%w: formula produced %s, expected %s", model.ErrTypeMismatch, model.TypeName(v.Type()), model.TypeName(want))
	}
	return v, nil
}
