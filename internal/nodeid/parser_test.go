// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		rawID      string
		expectErr  bool
		expectedID string
	}{
		{
			name:       "canonical form",
			rawID:      "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
			expectedID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		},
		{
			name:       "uppercase is normalized",
			rawID:      "1B4E28BA-2FA1-11D2-883F-0016D3CCA427",
			expectedID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		},
		{
			name:       "surrounding whitespace",
			rawID:      "  1b4e28ba-2fa1-11d2-883f-0016d3cca427\n",
			expectedID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - not a uuid",
			rawID:     "step.print.A",
			expectErr: true,
		},
		{
			name:      "error - nil uuid",
			rawID:     "00000000-0000-0000-0000-000000000000",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				assert.True(t, id.IsNil())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id.String())
		})
	}
}

func TestID_RoundTrip(t *testing.T) {
	for i := 0; i < 5; i++ {
		id := New()
		require.False(t, id.IsNil())

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equal(parsed))

		text, err := id.MarshalText()
		require.NoError(t, err)
		var decoded ID
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, id, decoded)
	}
}

func TestID_Equal(t *testing.T) {
	a := MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	b := MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	c := New()

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Nil))
	assert.True(t, Nil.Equal(ID{}))
	assert.Equal(t, "1b4e28ba", a.Short())
}
