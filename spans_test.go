package linepatch

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

// reconstruct concatenates one side of a span list back into a full line.
func reconstruct(spans []span) (old, new string) {
	for _, sp := range spans {
		old += sp.old
		new += sp.new
	}
	return old, new
}

func TestLineSpans_Reconstruction(t *testing.T) {
	cases := []struct {
		name             string
		oldLine, newLine string
	}{
		{"identical", "return nil", "return nil"},
		{"suffix change", "return 1", "return 10"},
		{"infix change", "a := compute(x, y)", "a := compute(x, z)"},
		{"disjoint", "alpha", "omega"},
		{"empty old", "", "added"},
		{"empty new", "removed", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spans := lineSpans(tc.oldLine, tc.newLine)
			gotOld, gotNew := reconstruct(spans)
			require.Equal(t, tc.oldLine, gotOld)
			require.Equal(t, tc.newLine, gotNew)
		})
	}
}

func TestLineSpans_IdenticalIsOneEqualSpan(t *testing.T) {
	spans := lineSpans("return nil", "return nil")
	require.Equal(t, []span{{op: spanEqual, old: "return nil", new: "return nil"}}, spans)
}

func TestCoalesceSpans(t *testing.T) {
	eq := func(s string) diffmatchpatch.Diff {
		return diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: s}
	}
	del := func(s string) diffmatchpatch.Diff {
		return diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: s}
	}
	ins := func(s string) diffmatchpatch.Diff {
		return diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: s}
	}

	t.Run("delete plus insert becomes replace", func(t *testing.T) {
		spans := coalesceSpans([]diffmatchpatch.Diff{del("foo"), ins("bar")})
		require.Equal(t, []span{{op: spanReplace, old: "foo", new: "bar"}}, spans)
	})

	t.Run("short equal bridge folds into the changes around it", func(t *testing.T) {
		spans := coalesceSpans([]diffmatchpatch.Diff{
			eq("a = "), del("1"), eq("."), del("5"), ins("2"),
		})
		require.Equal(t, []span{
			{op: spanEqual, old: "a = ", new: "a = "},
			{op: spanReplace, old: "1.5", new: ".2"},
		}, spans)

		// Folding keeps the bridge on both sides of the replace.
		gotOld, gotNew := reconstruct(spans)
		require.Equal(t, "a = 1.5", gotOld)
		require.Equal(t, "a = .2", gotNew)
	})

	t.Run("long equal segment stays separate", func(t *testing.T) {
		bridge := "unchanged" // longer than the fold threshold
		spans := coalesceSpans([]diffmatchpatch.Diff{
			del("x"), eq(bridge), del("y"), ins("z"),
		})
		require.Equal(t, []span{
			{op: spanDelete, old: "x"},
			{op: spanEqual, old: bridge, new: bridge},
			{op: spanReplace, old: "y", new: "z"},
		}, spans)
	})

	t.Run("empty fragments are dropped", func(t *testing.T) {
		spans := coalesceSpans([]diffmatchpatch.Diff{eq(""), del("a"), eq("")})
		require.Equal(t, []span{{op: spanDelete, old: "a"}}, spans)
	})
}
