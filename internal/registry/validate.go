package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Validate checks every registered node type for consistency. Generic types
// are instantiated with each default data type so their property lists and
// result types are exercised too.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		t := r.nodeTypes[name]
		if err := t.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}

		for _, args := range typeArgCombinations(t.TypeParams, model.DefaultDataTypes) {
			errs = append(errs, checkInstantiation(t, args)...)
		}
		logger.Debug("Node type validated.", "name", name, "type_params", t.TypeParams)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func checkInstantiation(t *model.NodeType, args []cty.Type) []string {
	var errs []string
	label := t.Name
	if len(args) > 0 {
		label = instanceName(t.Name, args)
	}

	seen := make(map[string]struct{})
	for _, def := range t.PropertyDefs(args) {
		if _, dup := seen[def.Name]; dup {
			errs = append(errs, fmt.Sprintf("node type '%s': property '%s' declared twice", label, def.Name))
		}
		seen[def.Name] = struct{}{}

		if def.Kind != model.KindStatement && def.Type == cty.NilType {
			errs = append(errs, fmt.Sprintf("node type '%s': %s property '%s' has no type", label, def.Kind, def.Name))
			continue
		}
		if def.Kind == model.KindValue || def.Kind == model.KindExpression {
			if _, err := model.CoerceDefault(def.Type, def.Default); err != nil {
				errs = append(errs, fmt.Sprintf("node type '%s': property '%s': %v", label, def.Name, err))
			}
		}
	}

	if t.Category == model.CategoryExpression && t.Result(args) == cty.NilType {
		errs = append(errs, fmt.Sprintf("node type '%s': expression has no result type", label))
	}
	return errs
}

// typeArgCombinations returns every assignment of n type arguments drawn
// from types.
func typeArgCombinations(n int, types []cty.Type) [][]cty.Type {
	combos := [][]cty.Type{{}}
	for i := 0; i < n; i++ {
		var next [][]cty.Type
		for _, prefix := range combos {
			for _, t := range types {
				c := append(append([]cty.Type{}, prefix...), t)
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos
}

func instanceName(name string, args []cty.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = model.TypeName(a)
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ","))
}
