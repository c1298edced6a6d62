package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/visualgrid/internal/config"
	"github.com/vk/visualgrid/internal/schema"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateFile converts one decoded environment file into the agnostic model.
func translateFile(ctx context.Context, f *schema.File) (*config.Model, error) {
	m := &config.Model{}

	if f.Nodes != nil {
		m.Nodes = &config.NodeSelection{
			IncludeDefault: f.Nodes.IncludeDefault,
			Include:        f.Nodes.Include,
			Exclude:        f.Nodes.Exclude,
		}
	}

	if isExprDefined(ctx, f.DataTypes, "data_types") {
		exprs, diags := hcl.ExprList(f.DataTypes)
		if diags.HasErrors() {
			return nil, fmt.Errorf("data_types must be a list of types: %w", diags)
		}
		for _, expr := range exprs {
			t, err := typeExprToCtyType(ctx, expr)
			if err != nil {
				return nil, fmt.Errorf("data_types: %w", err)
			}
			m.DataTypes = append(m.DataTypes, t)
		}
	}

	for _, e := range f.Entries {
		entry := &config.EntryDefinition{ID: e.ID, Name: e.Name}
		for _, p := range e.Parameters {
			t, err := typeExprToCtyType(ctx, p.Type)
			if err != nil {
				return nil, fmt.Errorf("entry '%s', parameter '%s': %w", e.ID, p.Name, err)
			}
			entry.Parameters = append(entry.Parameters, &config.ParameterDefinition{Name: p.Name, Type: t})
		}
		m.Entries = append(m.Entries, entry)
	}

	for _, v := range f.LockedVariables {
		def, err := translateVariable(ctx, v)
		if err != nil {
			return nil, err
		}
		m.LockedVariables = append(m.LockedVariables, def)
	}
	return m, nil
}

// translateVariable parses the type and evaluates the optional default of a
// locked variable. HCL has no list or map literals, so tuple and object
// defaults of collection variables are converted to the declared type.
// Primitive defaults are passed through and must match exactly.
func translateVariable(ctx context.Context, v *schema.LockedVariable) (*config.VariableDefinition, error) {
	t, err := typeExprToCtyType(ctx, v.Type)
	if err != nil {
		return nil, fmt.Errorf("locked variable '%s': %w", v.Name, err)
	}

	def := &config.VariableDefinition{Name: v.Name, Type: t}
	if isExprDefined(ctx, v.Default, "default") {
		val, diags := v.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for locked variable '%s': %w", v.Name, diags)
		}
		if !t.IsPrimitiveType() && !val.IsNull() {
			converted, err := convert.Convert(val, t)
			if err != nil {
				return nil, fmt.Errorf("invalid default value for locked variable '%s': %w", v.Name, err)
			}
			val = converted
		}
		def.Default = &val
	}
	return def, nil
}
