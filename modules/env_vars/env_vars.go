// Package env_vars provides nodes that read the process environment of the
// host running a program instance.
package env_vars

import (
	"fmt"
	"os"
	"strings"

	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

const (
	GetType   = "env_vars.get"
	IsSetType = "env_vars.is_set"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(get)
	r.RegisterNodeType(isSet)
}

func nameProperty() model.PropertyDef {
	return model.PropertyDef{Name: "Name", Label: "Variable name", Kind: model.KindValue, Type: cty.String, Order: 0}
}

// envName reads the Name property. The variable is looked up at run time,
// not while lowering.
func envName(n *model.Node) (string, error) {
	name := strings.TrimSpace(n.Value("Name").AsString())
	if name == "" {
		return "", fmt.Errorf("%w: %s has no environment variable name", model.ErrBrokenLink, n)
	}
	return name, nil
}

// get reads an environment variable. Fallback is used when the variable is
// not set and defaults to the empty string.
var get = &model.NodeType{
	Name:     GetType,
	Label:    "Environment Variable",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			nameProperty(),
			{Name: "Fallback", Kind: model.KindExpression, Type: cty.String, Order: 1},
		}
	},
	Result: func([]cty.Type) cty.Type { return cty.String },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		name, err := envName(n)
		if err != nil {
			return nil, err
		}
		fallback, err := n.Expression("Fallback").ResolveExpressionOr(ctx, cty.StringVal(""))
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) (cty.Value, error) {
			if v, ok := os.LookupEnv(name); ok {
				return cty.StringVal(v), nil
			}
			return fallback(f)
		}, nil
	},
}

var isSet = &model.NodeType{
	Name:     IsSetType,
	Label:    "Environment Variable Is Set",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{nameProperty()}
	},
	Result: func([]cty.Type) cty.Type { return cty.Bool },
	LowerExpression: func(_ model.LowerContext, n *model.Node) (runtime.Expr, error) {
		name, err := envName(n)
		if err != nil {
			return nil, err
		}
		return func(runtime.Frame) (cty.Value, error) {
			_, ok := os.LookupEnv(name)
			return cty.BoolVal(ok), nil
		}, nil
	},
}
