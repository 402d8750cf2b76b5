package policy

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

func TestDefaultClassification(t *testing.T) {
	tr := parse(t, "<h2>a<b>b</b><br/><img src=\"x\"/></h2>")
	c := Default(DefaultConfig())
	root := tr.Root()
	h2 := tr.FirstChild(root)
	b, br, img := tr.Child(h2, 1), tr.Child(h2, 2), tr.Child(h2, 3)

	assert.True(t, c.IsBlock(tr, root))
	assert.True(t, c.IsUnremovable(tr, root))
	assert.True(t, c.IsUnbreakable(tr, root))

	assert.True(t, c.IsBlock(tr, h2))
	assert.True(t, c.IsParagraphLike(tr, h2))
	assert.True(t, c.IsDemotable(tr, h2))
	assert.False(t, c.IsUnremovable(tr, h2))

	assert.False(t, c.IsBlock(tr, b))
	assert.False(t, c.IsInlineAtomic(tr, b))
	assert.True(t, c.IsInlineAtomic(tr, br))
	assert.True(t, c.IsLineBreak(tr, br))
	assert.True(t, c.IsInlineAtomic(tr, img))
	assert.False(t, c.IsLineBreak(tr, img))

	// Rules only see elements.
	assert.False(t, c.IsBlock(tr, tr.FirstChild(h2)))
	assert.Equal(t, "p", c.ParagraphTag())
}

func TestEditable(t *testing.T) {
	tr := parse(t, `<p>a</p><div contenteditable="false">b<span contenteditable="TRUE">c</span></div>`)
	c := Default(DefaultConfig())
	root := tr.Root()
	p, div := tr.Child(root, 0), tr.Child(root, 1)
	span := tr.Child(div, 1)

	assert.True(t, c.IsEditable(tr, root))
	assert.True(t, c.IsEditable(tr, tr.FirstChild(p)))
	assert.False(t, c.IsEditable(tr, div))
	assert.False(t, c.IsEditable(tr, tr.FirstChild(div)))
	assert.True(t, c.IsEditable(tr, span))
	assert.True(t, c.IsEditable(tr, tr.FirstChild(span)))
}

func TestDetachedNodeIsNotEditable(t *testing.T) {
	tr := parse(t, "<p>a</p>")
	c := Default(DefaultConfig())
	assert.False(t, c.IsEditable(tr, tr.NewElement("p")))
}

func TestRegisterAndExplain(t *testing.T) {
	tr := parse(t, `<p>a<x-card data-lock="yes">b</x-card></p>`)
	c := Default(DefaultConfig())
	card := tr.Child(tr.FirstChild(tr.Root()), 1)
	require.False(t, c.IsUnremovable(tr, card))

	c.Register(Unremovable, AttrRule("locked-attr", "data-lock", "YES"))
	c.Register(Unremovable, TagRule("cards", "X-CARD"))
	assert.True(t, c.IsUnremovable(tr, card))
	assert.Equal(t, "locked-attr", c.Explain(Unremovable, tr, card))
	assert.Equal(t, "root", c.Explain(Unremovable, tr, tr.Root()))
	assert.Equal(t, "", c.Explain(Unbreakable, tr, card))

	if diff := cmp.Diff([]string{"root", "locked-attr", "cards"}, c.Rules(Unremovable)); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}

	// Same name replaces in place.
	c.Register(Unremovable, Rule{Name: "locked-attr", Match: func(*doc.Tree, types.NodeID) bool { return false }})
	assert.Equal(t, "cards", c.Explain(Unremovable, tr, card))
	assert.Len(t, c.Rules(Unremovable), 3)
}

func TestConfigOverrides(t *testing.T) {
	tr := parse(t, "<section><p>a</p></section><aside>b</aside>")
	cfg := DefaultConfig()
	cfg.UnbreakableTags = []string{"section"}
	cfg.UnremovableTags = []string{"aside"}
	cfg.ParagraphTag = ""
	c := Default(cfg)

	section, aside := tr.Child(tr.Root(), 0), tr.Child(tr.Root(), 1)
	assert.True(t, c.IsUnbreakable(tr, section))
	assert.False(t, c.IsUnremovable(tr, section))
	assert.True(t, c.IsUnremovable(tr, aside))
	assert.Equal(t, "unbreakable-tags", c.Explain(Unbreakable, tr, section))
	assert.Equal(t, "p", c.ParagraphTag())
}

func TestPlaceholder(t *testing.T) {
	tr := parse(t, "<p></p>")
	c := Default(DefaultConfig())
	br := c.NewPlaceholder(tr)
	assert.True(t, c.IsLineBreak(tr, br))
	assert.False(t, tr.IsConnected(br))
}

func TestCapabilityNames(t *testing.T) {
	require.Len(t, All(), int(numCapabilities))
	for _, cp := range All() {
		got, err := ParseCapability(cp.String())
		require.NoError(t, err)
		assert.Equal(t, cp, got)
	}
	_, err := ParseCapability("sticky")
	assert.Error(t, err)
	assert.Equal(t, "capability(42)", Capability(42).String())
}
