package environment

import (
	"context"

	"github.com/vk/visualgrid/internal/config"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// FromModel builds an environment from a loaded configuration model. Only
// the sections present in m are configured; the rest keep their defaults.
func FromModel(ctx context.Context, m *config.Model, reg *registry.Registry) (*Environment, error) {
	logger := ctxlog.FromContext(ctx)
	b := NewBuilder()
	if m == nil {
		return b.Build(reg)
	}

	if m.Nodes != nil {
		sel := m.Nodes
		err := b.ConfigureNodes(func(c *NodeConfigurator) error {
			if sel.IncludeDefault {
				c.IncludeDefault()
			}
			c.Include(sel.Include...).Exclude(sel.Exclude...)
			return nil
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("Node selection configured.", "include_default", sel.IncludeDefault, "include", len(sel.Include), "exclude", len(sel.Exclude))
	}

	if len(m.DataTypes) > 0 {
		err := b.ConfigureDataTypes(func(c *DataTypeConfigurator) error {
			c.Add(m.DataTypes...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(m.Entries) > 0 {
		err := b.ConfigureEntries(func(c *EntryConfigurator) error {
			for _, e := range m.Entries {
				params := make([]model.Parameter, 0, len(e.Parameters))
				for _, p := range e.Parameters {
					params = append(params, model.Parameter{Name: p.Name, Type: p.Type})
				}
				if err := c.Add(e.ID, e.Name, params...); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(m.LockedVariables) > 0 {
		err := b.ConfigureLockedVariables(func(c *LockedVariableConfigurator) error {
			for _, v := range m.LockedVariables {
				def := cty.NilVal
				if v.Default != nil {
					def = *v.Default
				}
				if err := c.Add(v.Name, v.Type, def); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	env, err := b.Build(reg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Environment built.", "node_types", len(env.nodeTypes), "data_types", len(env.dataTypes), "entries", len(env.entries), "locked_variables", len(env.locked))
	return env, nil
}
