package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

func TestNewNode_Defaults(t *testing.T) {
	n := mustNode(binaryType, cty.Number)

	assert.Equal(t, CategoryExpression, n.Category())
	assert.True(t, n.ResultType().Equals(cty.Number))
	assert.False(t, n.Expression("A").HasValue())
	assert.True(t, n.Expression("A").Type.Equals(cty.Number))
	assert.Equal(t, "x", n.Value("Mode").AsString())
	assert.True(t, n.VariableRef("Target").Type.Equals(cty.Number))

	names := []string{}
	for _, p := range n.Properties() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "B", "Mode", "Target"}, names)
}

func TestNewNode_StatementGetsNext(t *testing.T) {
	n := mustNode(blockType)

	def, ok := n.Property(NextProperty)
	require.True(t, ok)
	assert.Equal(t, KindStatement, def.Kind)

	props := n.Properties()
	assert.Equal(t, NextProperty, props[len(props)-1].Name, "Next is ordered last")
	assert.True(t, n.Expression("Cond").IsLiteral(), "expression default becomes a literal")
}

func TestNewNode_TypeArgumentCount(t *testing.T) {
	_, err := NewNode(binaryType)
	require.Error(t, err)

	_, err = NewNodeWithID(nodeid.Nil, blockType)
	require.Error(t, err)
}

func TestNode_SetValue(t *testing.T) {
	n := mustNode(binaryType, cty.Number)

	require.NoError(t, n.SetValue("Mode", cty.StringVal("y")))
	assert.Equal(t, "y", n.Value("Mode").AsString())

	err := n.SetValue("Mode", cty.StringVal("z"))
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, "y", n.Value("Mode").AsString(), "failed set leaves value untouched")

	require.ErrorIs(t, n.SetValue("Mode", cty.True), ErrTypeMismatch)
	require.ErrorIs(t, n.SetValue("A", cty.StringVal("x")), ErrKindMismatch)
	require.ErrorIs(t, n.SetValue("Nope", cty.StringVal("x")), ErrUnknownProperty)
}

func TestNode_SetLiteral(t *testing.T) {
	n := mustNode(binaryType, cty.Number)

	require.NoError(t, n.SetLiteral("A", cty.NumberIntVal(4)))
	ref := n.Expression("A")
	assert.True(t, ref.IsLiteral())
	assert.True(t, ref.Literal().RawEquals(cty.NumberIntVal(4)))

	require.ErrorIs(t, n.SetLiteral("B", cty.StringVal("four")), ErrTypeMismatch)
	require.ErrorIs(t, n.SetLiteral("B", cty.NullVal(cty.Number)), ErrTypeMismatch)
	require.ErrorIs(t, n.SetLiteral("B", cty.StringVal("4")), ErrTypeMismatch)
	require.ErrorIs(t, n.SetLiteral("B", cty.PositiveInfinity), ErrTypeMismatch)
	require.ErrorIs(t, n.SetLiteral("A", cty.NegativeInfinity), ErrTypeMismatch)
	assert.True(t, n.Expression("A").Literal().RawEquals(cty.NumberIntVal(4)), "failed set leaves literal untouched")
}

func TestNode_SetVariable(t *testing.T) {
	r := newTestResolver()
	num, err := NewVariable("Score", cty.Number, cty.NilVal)
	require.NoError(t, err)
	r.addVar(num)
	str, err := NewVariable("Name", cty.String, cty.NilVal)
	require.NoError(t, err)
	r.addVar(str)

	n := mustNode(binaryType, cty.Number)

	require.NoError(t, n.SetVariable(r, "Target", "score"))
	assert.Equal(t, "Score", n.VariableRef("Target").Name, "canonical name is stored")

	require.ErrorIs(t, n.SetVariable(r, "Target", "name"), ErrTypeMismatch)
	require.ErrorIs(t, n.SetVariable(r, "Target", "missing"), ErrUnknownVariable)
	assert.Equal(t, "Score", n.VariableRef("Target").Name)

	assert.Equal(t, 1, n.ClearVariable("SCORE"))
	assert.False(t, n.VariableRef("Target").HasValue())
}

func TestEntryNode_ClearVariableDropsParameterMapping(t *testing.T) {
	def := EntryDefinition{ID: "main", Parameters: []Parameter{{Name: "x", Type: cty.Number}}}
	n := NewEntryNode(nodeid.New(), def)
	n.Entry().Parameters["x"] = "Input"

	assert.Equal(t, 1, n.ClearVariable("input"))
	assert.Empty(t, n.Entry().Parameters)
	assert.Equal(t, CategoryEntry, n.Category())
	assert.False(t, n.CompilerNext(newTestResolver()).HasValue())
}
