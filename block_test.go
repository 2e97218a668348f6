package linepatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefEscaping(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"sentinel literal", StartOfText},
		{"escaped sentinel literal", refEscape + StartOfText},
		{"doubly escaped sentinel literal", refEscape + refEscape + StartOfText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := escapeRef(tc.line)
			require.Equal(t, refEscape+tc.line, ref, "every line in the sentinel family escapes one level deeper")
			require.NotEqual(t, StartOfText, ref)
			require.True(t, refMatches(ref, tc.line))
			require.False(t, refMatches(ref, tc.line+"x"))
			// The stored form never matches a shallower or deeper member of
			// the family.
			require.False(t, refMatches(ref, ref))
			if tc.line != StartOfText {
				require.False(t, refMatches(ref, tc.line[len(refEscape):]))
			}
		})
	}

	t.Run("ordinary lines pass through", func(t *testing.T) {
		for _, line := range []string{"", "plain", refEscape, refEscape + "code", StartOfText + " trailing"} {
			require.Equal(t, line, escapeRef(line))
			require.True(t, refMatches(line, line))
		}
	})
}
