package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func TestPrint(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})
	first := h.Node(t, PrintType)
	second := h.Node(t, PrintType)
	require.NoError(t, first.SetLiteral("Value", cty.StringVal("Hello")))
	require.NoError(t, second.SetLiteral("Value", cty.StringVal("World")))
	h.Chain(t, first, second)

	f, err := h.Run(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "World"}, f.Lines)
}

func TestPrint_RequiresValue(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})
	n := h.Node(t, PrintType)

	_, err := h.Run(n)
	require.ErrorIs(t, err, model.ErrBrokenLink)
}
