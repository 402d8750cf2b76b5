package traverse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
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

// labels renders yielded nodes as tags or text values.
func labels(tr *doc.Tree, nodes []types.NodeID) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		if tr.IsText(n) {
			out[i] = tr.Text(n)
		} else {
			out[i] = tr.Tag(n)
		}
	}
	return out
}

func TestLeafWalkRight(t *testing.T) {
	tr := parse(t, "<p>ab<b>cd</b></p><p>ef</p>")
	p1 := tr.FirstChild(tr.Root())
	gen := New(tr, types.Right, Options{LeafOnly: true})

	got := labels(tr, gen(tr.FirstChild(p1), 1).Collect())
	if diff := cmp.Diff([]string{"cd", "ef"}, got); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkLeftIncludesAncestors(t *testing.T) {
	tr := parse(t, "<p>ab<b>cd</b></p><p>ef</p>")
	p2 := tr.LastChild(tr.Root())
	gen := New(tr, types.Left, Options{})

	got := labels(tr, gen(p2, 0).Collect())
	assert.Equal(t, []string{"p", "cd", "b", "ab", "p"}, got)
}

func TestStopAtReason(t *testing.T) {
	tr := parse(t, "<p>ab</p><p>cd</p>")
	root := tr.Root()
	p2 := tr.LastChild(root)
	isP := func(n types.NodeID) bool { return tr.Tag(n) == "p" }

	path := New(tr, types.Left, Options{LeafOnly: true, StopAt: isP})(tr.FirstChild(p2), 0)
	assert.Empty(t, path.Collect())
	assert.Equal(t, EndBlockOut, path.Reason())
	assert.Equal(t, p2, path.StoppedAt())

	path = New(tr, types.Left, Options{LeafOnly: true, StopAt: isP, StopTraverse: isP})(root, 2)
	assert.Empty(t, path.Collect())
	assert.Equal(t, EndBlockHit, path.Reason())
}

func TestStopTraverseYieldsOpaqueNode(t *testing.T) {
	tr := parse(t, `<p>a<span contenteditable="false"><i>x</i></span>b</p>`)
	p := tr.FirstChild(tr.Root())
	opaque := func(n types.NodeID) bool { return tr.Tag(n) == "span" }

	got := labels(tr, New(tr, types.Right, Options{LeafOnly: true, StopTraverse: opaque})(p, 0).Collect())
	assert.Equal(t, []string{"a", "span", "b"}, got)
}

func TestScopeRoot(t *testing.T) {
	tr := parse(t, "<div><p>a</p></div><p>b</p>")
	div := tr.FirstChild(tr.Root())
	gen := New(tr, types.Right, Options{ScopeRoot: div})
	got := labels(tr, gen(tr.FirstChild(tr.FirstChild(div)), 1).Collect())
	assert.Equal(t, []string{"a", "p"}, got)
}

func TestRestartable(t *testing.T) {
	tr := parse(t, "<p>a<br/>b</p>")
	p := tr.FirstChild(tr.Root())
	path := New(tr, types.Right, Options{LeafOnly: true})(p, 0)
	assert.Equal(t, tr.FirstChild(p), path.First())
	assert.Equal(t, tr.FirstChild(p), path.First())
	assert.Equal(t, "br", tr.Tag(path.Find(tr.IsElement)))
}
