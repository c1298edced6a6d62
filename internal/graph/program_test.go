package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

func TestNewProgram_MergesLockedVariables(t *testing.T) {
	p := newTestProgram(t)

	v, ok := p.Variable("limit")
	require.True(t, ok)
	assert.True(t, v.Locked)
	assert.True(t, v.Value.RawEquals(cty.NumberIntVal(10)))
	assert.False(t, p.RemoveVariable("Limit"))
	require.NoError(t, p.MergeWithEnvironment(), "merging twice is harmless")
}

func TestProgram_CreateNode(t *testing.T) {
	p := newTestProgram(t)

	testCases := []struct {
		name     string
		typeName string
		wantErr  error
	}{
		{name: "registered", typeName: stepType.Name},
		{name: "unknown", typeName: "nope", wantErr: model.ErrNotAllowed},
		{name: "entry", typeName: model.EntryTypeName, wantErr: model.ErrNotAllowed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := p.CreateNode(tc.typeName)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			got, ok := p.Node(n.ID)
			require.True(t, ok)
			assert.Same(t, n, got)
		})
	}
}

func TestProgram_AddNodeRejectsDuplicates(t *testing.T) {
	p := newTestProgram(t)
	n := p.mustStep(t, "x")

	require.ErrorIs(t, p.AddNode(n), model.ErrDuplicateNode)

	clone, err := model.NewNodeWithID(n.ID, stepType)
	require.NoError(t, err)
	require.ErrorIs(t, p.AddNode(clone), model.ErrDuplicateNode)
}

func TestProgram_Entries(t *testing.T) {
	p := newTestProgram(t)

	_, err := p.CreateEntry("missing")
	require.ErrorIs(t, err, model.ErrUnknownEntry)

	entry, err := p.CreateEntry("MAIN")
	require.NoError(t, err)
	assert.Equal(t, "main", entry.Entry().EntryID)

	_, err = p.CreateEntry("main")
	require.ErrorIs(t, err, model.ErrDuplicateName)

	found, ok := p.EntryNode("Main")
	require.True(t, ok)
	assert.Same(t, entry, found)

	_, err = p.AddVariable("total", cty.Number, cty.Zero)
	require.NoError(t, err)
	_, err = p.AddVariable("label", cty.String, cty.StringVal(""))
	require.NoError(t, err)

	require.ErrorIs(t, p.MapEntryParameter(entry.ID, "nope", "total"), model.ErrUnknownProperty)
	require.ErrorIs(t, p.MapEntryParameter(entry.ID, "count", "missing"), model.ErrUnknownVariable)
	require.ErrorIs(t, p.MapEntryParameter(entry.ID, "count", "label"), model.ErrTypeMismatch)
	require.NoError(t, p.MapEntryParameter(entry.ID, "Count", "total"))
	assert.Equal(t, map[string]string{"count": "total"}, entry.Entry().Parameters)

	// Statements do not accept entries.
	step := p.mustStep(t, "s")
	require.ErrorIs(t, p.Link(step.ID, model.NextProperty, entry.ID), model.ErrKindMismatch)
	require.NoError(t, p.Link(entry.ID, model.FirstStatementProperty, step.ID))
}

func TestProgram_RemoveNodeScrubsReferences(t *testing.T) {
	p := newTestProgram(t)
	a, b := p.mustStep(t, "a"), p.mustStep(t, "b")
	fork, err := p.CreateNode(forkType.Name)
	require.NoError(t, err)
	p.mustChain(t, a, b)
	require.NoError(t, p.Link(fork.ID, "A", b.ID))
	require.NoError(t, p.Link(fork.ID, "B", a.ID))

	assert.True(t, p.RemoveNode(b.ID))
	assert.False(t, p.RemoveNode(b.ID))

	_, ok := p.Node(b.ID)
	assert.False(t, ok)
	assert.False(t, a.Statement(model.NextProperty).HasValue())
	assert.False(t, fork.Statement("A").HasValue())
	assert.True(t, fork.Statement("B").Target().Equal(a.ID), "unrelated links survive")
	assert.True(t, fork.Expression("Cond").IsLiteral(), "literals survive")
	require.NoError(t, p.Validate())
}

func TestProgram_RemoveVariableCascades(t *testing.T) {
	p := newTestProgram(t)
	_, err := p.AddVariable("total", cty.Number, cty.Zero)
	require.NoError(t, err)

	num, err := p.CreateNode(numberType.Name)
	require.NoError(t, err)
	require.NoError(t, p.SetVariableRef(num.ID, "Source", "TOTAL"))
	entry, err := p.CreateEntry("main")
	require.NoError(t, err)
	require.NoError(t, p.MapEntryParameter(entry.ID, "count", "total"))

	assert.True(t, p.RemoveVariable("Total"))
	assert.False(t, p.RemoveVariable("total"))
	assert.False(t, num.VariableRef("Source").HasValue())
	assert.Empty(t, entry.Entry().Parameters)
}

func TestProgram_RemoveLockedVariableKeepsReferences(t *testing.T) {
	p := newTestProgram(t)

	num, err := p.CreateNode(numberType.Name)
	require.NoError(t, err)
	require.NoError(t, p.SetVariableRef(num.ID, "Source", "limit"))
	entry, err := p.CreateEntry("main")
	require.NoError(t, err)
	require.NoError(t, p.MapEntryParameter(entry.ID, "count", "Limit"))

	assert.False(t, p.RemoveVariable("Limit"))
	assert.False(t, p.RemoveVariable("LIMIT"))

	v, ok := p.Variable("Limit")
	require.True(t, ok, "locked variable survives")
	assert.True(t, v.Locked)
	assert.True(t, num.VariableRef("Source").Equal(model.VariableRef{Name: "Limit"}))
	assert.Len(t, entry.Entry().Parameters, 1)
	assert.True(t, strings.EqualFold("Limit", entry.Entry().Parameters["count"]))
	require.NoError(t, p.Validate())
}

func TestProgram_AddVariableRequiresAllowedType(t *testing.T) {
	p := newTestProgram(t)

	_, err := p.AddVariable("xs", cty.List(cty.String), cty.ListValEmpty(cty.String))
	require.ErrorIs(t, err, model.ErrNotAllowed)

	_, err = p.AddVariable("limit", cty.Number, cty.Zero)
	require.ErrorIs(t, err, model.ErrDuplicateName)
}

func TestProgram_Validate(t *testing.T) {
	p := NewProgram(context.Background(), testEnvironment(t))
	a, b := p.mustStep(t, "a"), p.mustStep(t, "b")
	p.mustChain(t, a, b)
	_, err := p.AddVariable("total", cty.Number, cty.Zero)
	require.NoError(t, err)
	num, err := p.CreateNode(numberType.Name)
	require.NoError(t, err)
	require.NoError(t, p.SetVariableRef(num.ID, "Source", "total"))
	require.NoError(t, p.Validate())

	// Break things behind the facade's back.
	require.True(t, p.nodes.Remove(b.ID))
	require.True(t, p.vars.Remove("total"))

	err = p.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, model.ErrBrokenLink)
}

func TestProgram_LinkErrors(t *testing.T) {
	p := newTestProgram(t)
	a := p.mustStep(t, "a")

	require.ErrorIs(t, p.Link(nodeid.New(), model.NextProperty, a.ID), model.ErrBrokenLink)
	require.ErrorIs(t, p.Link(a.ID, model.NextProperty, nodeid.New()), model.ErrBrokenLink)
	require.ErrorIs(t, p.Link(a.ID, model.NextProperty, a.ID), model.ErrCircularReference)
	require.ErrorIs(t, p.Unlink(a.ID, "Nope"), model.ErrUnknownProperty)
}
