package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewVariable(t *testing.T) {
	testCases := []struct {
		name      string
		varName   string
		typ       cty.Type
		def       cty.Value
		expectErr error
		expected  cty.Value
	}{
		{name: "number default", varName: "n", typ: cty.Number, def: cty.NumberIntVal(3), expected: cty.NumberIntVal(3)},
		{name: "missing default uses zero value", varName: "s", typ: cty.String, def: cty.NilVal, expected: cty.StringVal("")},
		{name: "string default for bool", varName: "b", typ: cty.Bool, def: cty.StringVal("true"), expectErr: ErrInvalidDefault},
		{name: "numeric string for number", varName: "n", typ: cty.Number, def: cty.StringVal("12"), expectErr: ErrInvalidDefault},
		{name: "bool default for string", varName: "s", typ: cty.String, def: cty.True, expectErr: ErrInvalidDefault},
		{name: "number default for string", varName: "s", typ: cty.String, def: cty.NumberIntVal(7), expectErr: ErrInvalidDefault},
		{name: "infinite number", varName: "n", typ: cty.Number, def: cty.PositiveInfinity, expectErr: ErrInvalidDefault},
		{name: "tuple default for list", varName: "l", typ: cty.List(cty.String), def: cty.TupleVal([]cty.Value{cty.StringVal("a")}), expectErr: ErrInvalidDefault},
		{name: "list default", varName: "l", typ: cty.List(cty.String), def: cty.ListVal([]cty.Value{cty.StringVal("a")}), expected: cty.ListVal([]cty.Value{cty.StringVal("a")})},
		{name: "null for primitive", varName: "n", typ: cty.Number, def: cty.NullVal(cty.Number), expectErr: ErrInvalidDefault},
		{name: "wrong type", varName: "n", typ: cty.Number, def: cty.StringVal("abc"), expectErr: ErrInvalidDefault},
		{name: "null for collection", varName: "l", typ: cty.List(cty.String), def: cty.NilVal, expected: cty.NullVal(cty.List(cty.String))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewVariable(tc.varName, tc.typ, tc.def)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.RawEquals(v.Default), "got %#v", v.Default)
			assert.True(t, v.Value.RawEquals(v.Default))
		})
	}
}

func TestNewVariable_EmptyName(t *testing.T) {
	_, err := NewVariable("  ", cty.Number, cty.NilVal)
	require.Error(t, err)
}

func TestVariable_AssignAndReset(t *testing.T) {
	v, err := NewVariable("n", cty.Number, cty.NumberIntVal(1))
	require.NoError(t, err)

	require.NoError(t, v.Assign(cty.NumberIntVal(9)))
	assert.True(t, v.Value.RawEquals(cty.NumberIntVal(9)))

	require.ErrorIs(t, v.Assign(cty.StringVal("nine")), ErrTypeMismatch)
	require.ErrorIs(t, v.Assign(cty.StringVal("1")), ErrTypeMismatch)
	require.ErrorIs(t, v.Assign(cty.NegativeInfinity), ErrTypeMismatch)
	assert.True(t, v.Value.RawEquals(cty.NumberIntVal(9)), "rejected values leave the variable untouched")
	require.ErrorIs(t, v.Assign(cty.NilVal), ErrTypeMismatch)

	c := v.Clone()
	v.Reset()
	assert.True(t, v.Value.RawEquals(cty.NumberIntVal(1)))
	assert.True(t, c.Value.RawEquals(cty.NumberIntVal(9)), "clone is independent")
}

func TestEntryDefinition_Validate(t *testing.T) {
	ok := EntryDefinition{ID: "main", Parameters: []Parameter{{Name: "a", Type: cty.Number}, {Name: "b", Type: cty.String}}}
	require.NoError(t, ok.Validate())

	p, found := ok.Parameter("B")
	require.True(t, found)
	assert.True(t, p.Type.Equals(cty.String))
	assert.Len(t, ok.ParameterTypes(), 2)

	dup := EntryDefinition{ID: "main", Parameters: []Parameter{{Name: "a", Type: cty.Number}, {Name: "A", Type: cty.String}}}
	require.ErrorIs(t, dup.Validate(), ErrDuplicateName)

	require.Error(t, EntryDefinition{}.Validate())
}
