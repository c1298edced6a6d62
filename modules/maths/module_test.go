package maths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func binaryNode(t *testing.T, h *testutil.Harness, typeName, op string, a, b cty.Value) *model.Node {
	t.Helper()
	n := h.Node(t, typeName)
	require.NoError(t, n.SetValue("Op", cty.StringVal(op)))
	require.NoError(t, n.SetLiteral("A", a))
	require.NoError(t, n.SetLiteral("B", b))
	return n
}

func TestOperation(t *testing.T) {
	testCases := []struct {
		op      string
		a, b    int64
		want    cty.Value
		wantErr error
	}{
		{op: "add", a: 2, b: 3, want: cty.NumberIntVal(5)},
		{op: "subtract", a: 2, b: 3, want: cty.NumberIntVal(-1)},
		{op: "multiply", a: 4, b: 3, want: cty.NumberIntVal(12)},
		{op: "divide", a: 9, b: 3, want: cty.NumberIntVal(3)},
		{op: "divide", a: 1, b: 0, wantErr: ErrDivisionByZero},
		{op: "modulo", a: 7, b: 3, want: cty.NumberIntVal(1)},
		{op: "modulo", a: 7, b: 0, wantErr: ErrDivisionByZero},
		{op: "pow", a: 2, b: 10, want: cty.NumberIntVal(1024)},
	}
	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			h := testutil.NewHarness(t, &Module{})
			n := binaryNode(t, h, OperationType, tc.op, cty.NumberIntVal(tc.a), cty.NumberIntVal(tc.b))

			got, err := h.Eval(n)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equals(tc.want).True(), "got %s", got.GoString())
		})
	}
}

func TestOperation_RejectsUnknownOp(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})
	n := h.Node(t, OperationType)
	require.ErrorIs(t, n.SetValue("Op", cty.StringVal("xor")), model.ErrTypeMismatch)
}

func TestOperation_RejectsInfiniteOperands(t *testing.T) {
	testCases := []struct {
		name   string
		op     string
		finite cty.Value
		inf    cty.Value
	}{
		{name: "inf minus inf", op: "subtract", finite: cty.NumberIntVal(1), inf: cty.PositiveInfinity},
		{name: "zero times inf", op: "multiply", finite: cty.Zero, inf: cty.NegativeInfinity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := testutil.NewHarness(t, &Module{})
			n := h.Node(t, OperationType)
			require.NoError(t, n.SetValue("Op", cty.StringVal(tc.op)))
			require.NoError(t, n.SetLiteral("A", tc.finite))

			require.ErrorIs(t, n.SetLiteral("A", tc.inf), model.ErrTypeMismatch)
			require.ErrorIs(t, n.SetLiteral("B", tc.inf), model.ErrTypeMismatch)
			assert.True(t, n.Expression("A").Literal().RawEquals(tc.finite))
			assert.False(t, n.Expression("B").HasValue())

			_, err := h.Eval(n)
			require.ErrorIs(t, err, model.ErrBrokenLink, "rejected literals are never stored")
		})
	}
}

func TestOperation_RequiresOperands(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})
	n := h.Node(t, OperationType)

	_, err := h.Eval(n)
	require.ErrorIs(t, err, model.ErrBrokenLink)
}

func TestComparison(t *testing.T) {
	testCases := []struct {
		op   string
		a, b int64
		want bool
	}{
		{op: "eq", a: 1, b: 1, want: true},
		{op: "neq", a: 1, b: 1, want: false},
		{op: "lt", a: 1, b: 2, want: true},
		{op: "lte", a: 2, b: 2, want: true},
		{op: "gt", a: 1, b: 2, want: false},
		{op: "gte", a: 3, b: 2, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			h := testutil.NewHarness(t, &Module{})
			n := binaryNode(t, h, ComparisonType, tc.op, cty.NumberIntVal(tc.a), cty.NumberIntVal(tc.b))
			assert.True(t, n.ResultType().Equals(cty.Bool))

			got, err := h.Eval(n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.True())
		})
	}
}

func TestInlineOperation(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})
	h.Variable(t, "x", cty.Number, cty.NumberIntVal(10))

	n := h.Node(t, InlineOperationType)
	require.NoError(t, h.Program.SetVariableRef(n.ID, "Variable", "x"))
	require.NoError(t, n.SetValue("Op", cty.StringVal("multiply")))
	require.NoError(t, n.SetLiteral("Value", cty.NumberIntVal(3)))

	f, err := h.Run(n)
	require.NoError(t, err)
	got, err := f.Vars.Value("x")
	require.NoError(t, err)
	assert.True(t, got.Equals(cty.NumberIntVal(30)).True())
}
