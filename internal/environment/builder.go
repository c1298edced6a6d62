package environment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Builder assembles an Environment. Each Configure method may be called once.
type Builder struct {
	nodes     *NodeConfigurator
	entries   *EntryConfigurator
	dataTypes *DataTypeConfigurator
	locked    *LockedVariableConfigurator
}

// NewBuilder returns a builder with every stage unconfigured.
func NewBuilder() *Builder {
	return &Builder{}
}

// ConfigureNodes selects the allowed node types. Without it every registered
// node type is allowed.
func (b *Builder) ConfigureNodes(fn func(c *NodeConfigurator) error) error {
	if b.nodes != nil {
		return fmt.Errorf("%w: nodes", model.ErrAlreadyConfigured)
	}
	c := &NodeConfigurator{}
	if err := fn(c); err != nil {
		return fmt.Errorf("configuring nodes: %w", err)
	}
	b.nodes = c
	return nil
}

// ConfigureEntries declares the entry definitions. Without it there are none.
func (b *Builder) ConfigureEntries(fn func(c *EntryConfigurator) error) error {
	if b.entries != nil {
		return fmt.Errorf("%w: entries", model.ErrAlreadyConfigured)
	}
	c := &EntryConfigurator{}
	if err := fn(c); err != nil {
		return fmt.Errorf("configuring entries: %w", err)
	}
	b.entries = c
	return nil
}

// ConfigureDataTypes selects the allowed data types. Without it number,
// string and bool are allowed.
func (b *Builder) ConfigureDataTypes(fn func(c *DataTypeConfigurator) error) error {
	if b.dataTypes != nil {
		return fmt.Errorf("%w: data types", model.ErrAlreadyConfigured)
	}
	c := &DataTypeConfigurator{}
	if err := fn(c); err != nil {
		return fmt.Errorf("configuring data types: %w", err)
	}
	b.dataTypes = c
	return nil
}

// ConfigureLockedVariables declares host-owned variables. Without it there
// are none.
func (b *Builder) ConfigureLockedVariables(fn func(c *LockedVariableConfigurator) error) error {
	if b.locked != nil {
		return fmt.Errorf("%w: locked variables", model.ErrAlreadyConfigured)
	}
	c := &LockedVariableConfigurator{}
	if err := fn(c); err != nil {
		return fmt.Errorf("configuring locked variables: %w", err)
	}
	b.locked = c
	return nil
}

// Build resolves the configured stages against reg. Node names must be
// registered, and entry parameters and locked variables must use allowed
// data types.
func (b *Builder) Build(reg *registry.Registry) (*Environment, error) {
	env := &Environment{
		registry: reg,
		allowed:  make(map[string]struct{}),
	}

	if b.dataTypes == nil {
		env.dataTypes = append(env.dataTypes, model.DefaultDataTypes...)
	} else {
		env.dataTypes = b.dataTypes.resolve()
	}

	names, err := b.resolveNodes(reg)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		env.allowed[name] = struct{}{}
	}
	env.nodeTypes = names

	if b.entries != nil {
		for _, def := range b.entries.defs {
			for _, p := range def.Parameters {
				if !env.AllowsDataType(p.Type) {
					return nil, fmt.Errorf("%w: entry '%s' parameter '%s' uses data type %s", model.ErrNotAllowed, def.ID, p.Name, model.TypeName(p.Type))
				}
			}
			env.entries = append(env.entries, def)
		}
	}

	if b.locked != nil {
		for _, v := range b.locked.vars {
			if !env.AllowsDataType(v.Type) {
				return nil, fmt.Errorf("%w: locked variable '%s' uses data type %s", model.ErrNotAllowed, v.Name, model.TypeName(v.Type))
			}
			env.locked = append(env.locked, v)
		}
	}

	return env, nil
}

func (b *Builder) resolveNodes(reg *registry.Registry) ([]string, error) {
	set := make(map[string]struct{})
	all := reg.Names()

	c := b.nodes
	if c == nil {
		c = &NodeConfigurator{includeDefault: true}
	}
	if c.includeDefault {
		for _, name := range all {
			set[name] = struct{}{}
		}
	}
	for _, name := range c.include {
		if _, ok := reg.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: '%s' cannot be included", model.ErrUnknownNodeType, name)
		}
		set[name] = struct{}{}
	}
	for _, name := range c.exclude {
		delete(set, name)
	}
	delete(set, model.EntryTypeName)

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// NodeConfigurator selects node types. Exclusions are applied last.
type NodeConfigurator struct {
	includeDefault bool
	include        []string
	exclude        []string
}

// IncludeDefault allows every registered node type.
func (c *NodeConfigurator) IncludeDefault() *NodeConfigurator {
	c.includeDefault = true
	return c
}

// Include allows the named node types.
func (c *NodeConfigurator) Include(names ...string) *NodeConfigurator {
	c.include = append(c.include, names...)
	return c
}

// Exclude removes the named node types.
func (c *NodeConfigurator) Exclude(names ...string) *NodeConfigurator {
	c.exclude = append(c.exclude, names...)
	return c
}

// EntryConfigurator collects entry definitions.
type EntryConfigurator struct {
	defs []model.EntryDefinition
}

// Add declares an entry. Ids are unique case-insensitively.
func (c *EntryConfigurator) Add(id, name string, params ...model.Parameter) error {
	def := model.EntryDefinition{ID: strings.TrimSpace(id), Name: name, Parameters: params}
	if def.Name == "" {
		def.Name = def.ID
	}
	if err := def.Validate(); err != nil {
		return err
	}
	for _, existing := range c.defs {
		if strings.EqualFold(existing.ID, def.ID) {
			return fmt.Errorf("%w: entry '%s' is already declared", model.ErrDuplicateName, id)
		}
	}
	c.defs = append(c.defs, def)
	return nil
}

// DataTypeConfigurator collects allowed data types.
type DataTypeConfigurator struct {
	includeDefault bool
	types          []cty.Type
}

// IncludeDefault allows number, string and bool.
func (c *DataTypeConfigurator) IncludeDefault() *DataTypeConfigurator {
	c.includeDefault = true
	return c
}

// Add allows the given types.
func (c *DataTypeConfigurator) Add(types ...cty.Type) *DataTypeConfigurator {
	c.types = append(c.types, types...)
	return c
}

func (c *DataTypeConfigurator) resolve() []cty.Type {
	var out []cty.Type
	add := func(t cty.Type) {
		for _, o := range out {
			if o.Equals(t) {
				return
			}
		}
		out = append(out, t)
	}
	if c.includeDefault {
		for _, t := range model.DefaultDataTypes {
			add(t)
		}
	}
	for _, t := range c.types {
		if t != cty.NilType {
			add(t)
		}
	}
	return out
}

// LockedVariableConfigurator collects host-owned variables.
type LockedVariableConfigurator struct {
	vars []*model.Variable
}

// Add declares a locked variable.
func (c *LockedVariableConfigurator) Add(name string, t cty.Type, def cty.Value) error {
	for _, existing := range c.vars {
		if strings.EqualFold(existing.Name, name) {
			return fmt.Errorf("%w: locked variable '%s' is already declared", model.ErrDuplicateName, name)
		}
	}
	v, err := model.NewVariable(name, t, def)
	if err != nil {
		return err
	}
	v.Locked = true
	c.vars = append(c.vars, v)
	return nil
}
