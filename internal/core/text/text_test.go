package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/types"
)

func parse(t *testing.T, src string) *doc.Tree {
	t.Helper()
	tr, err := doc.ParseHTML(src)
	require.NoError(t, err)
	return tr
}

func TestSplitTextEnds(t *testing.T) {
	tr := parse(t, "<p>x<b>abc</b></p>")
	b := tr.LastChild(tr.FirstChild(tr.Root()))
	txt := tr.FirstChild(b)

	assert.Equal(t, 0, SplitText(tr, txt, 0, KeepLeft))
	assert.Equal(t, 1, SplitText(tr, txt, 3, KeepRight))
	assert.Equal(t, 1, tr.ChildCount(b))
}

func TestSplitTextKeepsIdentity(t *testing.T) {
	tr := parse(t, "<p>abcd</p>")
	p := tr.FirstChild(tr.Root())
	txt := tr.FirstChild(p)

	gap := SplitText(tr, txt, 1, KeepRight)
	assert.Equal(t, 1, gap)
	assert.Equal(t, "bcd", tr.Text(txt))
	assert.Equal(t, txt, tr.Child(p, 1))

	gap = SplitText(tr, txt, 2, KeepLeft)
	assert.Equal(t, 2, gap)
	assert.Equal(t, "bc", tr.Text(txt))
	assert.Equal(t, "d", tr.Text(tr.Child(p, 2)))
}

// Splitting then merging the fragments gives back the original value for
// every offset.
func TestSplitMergeRoundTrip(t *testing.T) {
	const s = "h\u00e9llo w\u00f6rld \U0001F44D\U0001F3FD"
	for k := 0; k <= RuneLen(s); k++ {
		for _, keep := range []Side{KeepLeft, KeepRight} {
			tr := parse(t, "<p></p>")
			p := tr.FirstChild(tr.Root())
			txt := tr.NewText(s)
			tr.AppendChild(p, txt)

			SplitText(tr, txt, k, keep)
			merged := ""
			for _, c := range tr.Children(p) {
				merged += tr.Text(c)
			}
			for tr.ChildCount(p) > 1 {
				tr.Remove(tr.LastChild(p))
			}
			tr.SetText(tr.FirstChild(p), merged)
			require.Equal(t, 1, tr.ChildCount(p))
			assert.Equal(t, s, tr.Text(tr.FirstChild(p)), "offset %d", k)
		}
	}
}

func TestSplitElement(t *testing.T) {
	tr := parse(t, "<div><p>a</p><p>b</p><p>c</p></div>")
	div := tr.FirstChild(tr.Root())
	left, right := SplitElement(tr, div, 1)
	assert.Equal(t, "<div><p>a</p></div><div><p>b</p><p>c</p></div>", tr.HTML())
	assert.Equal(t, left, tr.Child(tr.Root(), 0))
	assert.Equal(t, right, tr.Child(tr.Root(), 1))
	assert.False(t, tr.IsConnected(div))
}

func TestSplitAroundUntil(t *testing.T) {
	tr := parse(t, "<ul><li>a<b>x</b><i>y</i>z</li></ul>")
	ul := tr.FirstChild(tr.Root())
	li := tr.FirstChild(ul)
	run := []types.NodeID{tr.Child(li, 1), tr.Child(li, 2)}

	got := SplitAroundUntil(tr, run, ul)
	assert.Equal(t, "<ul><li>a</li><li><b>x</b><i>y</i></li><li>z</li></ul>", tr.HTML())
	assert.Equal(t, tr.Child(ul, 1), got)
}

func TestGraphemes(t *testing.T) {
	cases := []struct {
		name   string
		s      string
		off    int
		before int
		after  int
	}{
		{"ascii", "abc", 1, 1, 1},
		{"start", "abc", 0, 0, 1},
		{"end", "abc", 3, 1, 0},
		{"astral", "a\U0001F600b", 2, 1, 1},
		{"skin tone", "\U0001F44D\U0001F3FDx", 2, 2, 1},
		{"combining", "e\u0301x", 2, 2, 1},
		{"flag", "\U0001F1EB\U0001F1F7", 2, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.before, GraphemeBefore(tc.s, tc.off))
			assert.Equal(t, tc.after, GraphemeAfter(tc.s, tc.off))
		})
	}
}

func TestWhitespaceHelpers(t *testing.T) {
	assert.True(t, IsZWS(ZWS+ZWS))
	assert.False(t, IsZWS(""))
	assert.False(t, IsZWS("a"+ZWS))
	assert.True(t, OnlyCollapsible(" \n"+ZWS))
	assert.False(t, OnlyCollapsible(NBSP))

	rest, removed := Cut("a\u00f1b", 1, 2)
	assert.Equal(t, "ab", rest)
	assert.Equal(t, "\u00f1", removed)
	assert.Equal(t, "\u00f1b", Slice("a\u00f1b", 1, 10))
}

func TestPositions(t *testing.T) {
	tr := parse(t, "<p>a<b>bc</b></p>")
	p := tr.FirstChild(tr.Root())
	b := tr.LastChild(p)
	assert.Equal(t, types.Position{Node: p, Offset: 1}, LeftPos(tr, b))
	assert.Equal(t, types.Position{Node: p, Offset: 2}, RightPos(tr, b))
	assert.Equal(t, types.Position{Node: b, Offset: 1}, EndPos(tr, b))
	assert.Equal(t, tr.FirstChild(b), LastLeaf(tr, p))
	assert.Equal(t, tr.FirstChild(p), FirstLeaf(tr, p))
	assert.Equal(t, b, NodeAt(tr, types.Position{Node: p, Offset: 2}, types.Left))
	assert.Equal(t, types.NoNode, NodeAt(tr, types.Position{Node: p, Offset: 2}, types.Right))
}

