package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/config"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

func stmtType(name string) *model.NodeType {
	return &model.NodeType{
		Name:           name,
		Category:       model.CategoryStatement,
		LowerStatement: func(model.LowerContext, *model.Node) (runtime.Stmt, error) { return runtime.Noop, nil },
	}
}

func testRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterNodeType(stmtType("a.one"))
	r.RegisterNodeType(stmtType("a.two"))
	r.RegisterNodeType(stmtType("b.three"))
	return r
}

func TestDefault(t *testing.T) {
	env := Default(testRegistry())

	assert.Equal(t, []string{"a.one", "a.two", "b.three"}, env.NodeTypes())
	assert.True(t, env.AllowsNode(model.EntryTypeName))
	assert.Len(t, env.DataTypes(), 3)
	assert.True(t, env.AllowsDataType(cty.Bool))
	assert.False(t, env.AllowsDataType(cty.List(cty.String)))
	assert.Empty(t, env.Entries())
	assert.Empty(t, env.LockedVariables())
}

func TestBuilder_StagesConfigureOnce(t *testing.T) {
	noop := func(any) error { return nil }
	b := NewBuilder()

	require.NoError(t, b.ConfigureNodes(func(c *NodeConfigurator) error { return noop(c) }))
	require.ErrorIs(t, b.ConfigureNodes(func(c *NodeConfigurator) error { return noop(c) }), model.ErrAlreadyConfigured)

	require.NoError(t, b.ConfigureEntries(func(c *EntryConfigurator) error { return noop(c) }))
	require.ErrorIs(t, b.ConfigureEntries(func(c *EntryConfigurator) error { return noop(c) }), model.ErrAlreadyConfigured)

	require.NoError(t, b.ConfigureDataTypes(func(c *DataTypeConfigurator) error { return noop(c) }))
	require.ErrorIs(t, b.ConfigureDataTypes(func(c *DataTypeConfigurator) error { return noop(c) }), model.ErrAlreadyConfigured)

	// Locked variables track their own stage, independent of data types.
	require.NoError(t, b.ConfigureLockedVariables(func(c *LockedVariableConfigurator) error { return noop(c) }))
	require.ErrorIs(t, b.ConfigureLockedVariables(func(c *LockedVariableConfigurator) error { return noop(c) }), model.ErrAlreadyConfigured)
}

func TestBuilder_LockedVariablesAfterDataTypes(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.ConfigureDataTypes(func(c *DataTypeConfigurator) error {
		c.IncludeDefault()
		return nil
	}))
	require.NoError(t, b.ConfigureLockedVariables(func(c *LockedVariableConfigurator) error {
		return c.Add("Score", cty.Number, cty.NumberIntVal(10))
	}))

	env, err := b.Build(testRegistry())
	require.NoError(t, err)
	locked := env.LockedVariables()
	require.Len(t, locked, 1)
	assert.True(t, locked[0].Locked)

	locked[0].Value = cty.NumberIntVal(99)
	assert.True(t, env.LockedVariables()[0].Value.RawEquals(cty.NumberIntVal(10)), "environment hands out copies")
}

func TestBuilder_NodeSelection(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.ConfigureNodes(func(c *NodeConfigurator) error {
		c.Include("a.one", "b.three").Exclude("b.three")
		return nil
	}))
	env, err := b.Build(testRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.one"}, env.NodeTypes())
	assert.False(t, env.AllowsNode("a.two"))

	b = NewBuilder()
	require.NoError(t, b.ConfigureNodes(func(c *NodeConfigurator) error {
		c.IncludeDefault().Exclude("a.two")
		return nil
	}))
	env, err = b.Build(testRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.one", "b.three"}, env.NodeTypes())

	b = NewBuilder()
	require.NoError(t, b.ConfigureNodes(func(c *NodeConfigurator) error {
		c.Include("ghost")
		return nil
	}))
	_, err = b.Build(testRegistry())
	require.ErrorIs(t, err, model.ErrUnknownNodeType)
}

func TestBuilder_Entries(t *testing.T) {
	b := NewBuilder()
	err := b.ConfigureEntries(func(c *EntryConfigurator) error {
		if err := c.Add("Main", "Main", model.Parameter{Name: "x", Type: cty.Number}); err != nil {
			return err
		}
		return c.Add("main", "Again")
	})
	require.ErrorIs(t, err, model.ErrDuplicateName)

	// A failed stage can be retried.
	require.NoError(t, b.ConfigureEntries(func(c *EntryConfigurator) error {
		return c.Add("Main", "", model.Parameter{Name: "x", Type: cty.Number})
	}))
	env, err := b.Build(testRegistry())
	require.NoError(t, err)

	def, ok := env.Entry("MAIN")
	require.True(t, ok)
	assert.Equal(t, "Main", def.Name)
}

func TestBuilder_RejectsDisallowedDataTypes(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.ConfigureDataTypes(func(c *DataTypeConfigurator) error {
		c.Add(cty.String)
		return nil
	}))
	require.NoError(t, b.ConfigureEntries(func(c *EntryConfigurator) error {
		return c.Add("main", "Main", model.Parameter{Name: "n", Type: cty.Number})
	}))
	_, err := b.Build(testRegistry())
	require.ErrorIs(t, err, model.ErrNotAllowed)
}

func TestLockedVariableConfigurator(t *testing.T) {
	c := &LockedVariableConfigurator{}
	require.NoError(t, c.Add("hp", cty.Number, cty.NilVal))
	require.ErrorIs(t, c.Add("HP", cty.Number, cty.NilVal), model.ErrDuplicateName)
	require.ErrorIs(t, c.Add("name", cty.String, cty.NullVal(cty.String)), model.ErrInvalidDefault)
}

func TestFromModel(t *testing.T) {
	def := cty.StringVal("anon")
	m := &config.Model{
		Nodes:     &config.NodeSelection{IncludeDefault: true, Exclude: []string{"a.two"}},
		DataTypes: []cty.Type{cty.Number, cty.String, cty.List(cty.String)},
		Entries: []*config.EntryDefinition{{
			ID:         "start",
			Name:       "Start",
			Parameters: []*config.ParameterDefinition{{Name: "tags", Type: cty.List(cty.String)}},
		}},
		LockedVariables: []*config.VariableDefinition{{Name: "player", Type: cty.String, Default: &def}},
	}

	env, err := FromModel(context.Background(), m, testRegistry())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.one", "b.three"}, env.NodeTypes())
	assert.True(t, env.AllowsDataType(cty.List(cty.String)))
	assert.False(t, env.AllowsDataType(cty.Bool))
	entry, ok := env.Entry("start")
	require.True(t, ok)
	assert.True(t, entry.Parameters[0].Type.Equals(cty.List(cty.String)))
	require.Len(t, env.LockedVariables(), 1)
	assert.Equal(t, "anon", env.LockedVariables()[0].Default.AsString())

	empty, err := FromModel(context.Background(), nil, testRegistry())
	require.NoError(t, err)
	assert.Len(t, empty.NodeTypes(), 3)
}
