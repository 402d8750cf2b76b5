package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

func setup(t *testing.T, src string) (*doc.Tree, *Manager) {
	t.Helper()
	tr, err := doc.ParseHTML(src)
	require.NoError(t, err)
	m := NewManager(tr, policy.Default(policy.DefaultConfig()), nil)
	t.Cleanup(m.Close)
	return tr, m
}

func TestSnapshotDerivedFields(t *testing.T) {
	tr, m := setup(t, "<p>abc</p><p>def</p>")
	a := tr.FirstChild(tr.Child(tr.Root(), 0))
	d := tr.FirstChild(tr.Child(tr.Root(), 1))

	sel, err := m.SetSelection(types.Position{Node: d, Offset: 2}, types.Position{Node: a, Offset: 1}, false)
	require.NoError(t, err)
	assert.False(t, sel.IsCollapsed())
	assert.Equal(t, types.Left, sel.Direction)
	assert.Equal(t, types.Position{Node: a, Offset: 1}, sel.Start)
	assert.Equal(t, types.Position{Node: d, Offset: 2}, sel.End)
	assert.Equal(t, tr.Root(), sel.CommonAncestor)
}

func TestSnapshotIsFrozen(t *testing.T) {
	tr, m := setup(t, "<p>abc</p>")
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))
	sel, err := m.SetCursor(types.Position{Node: txt, Offset: 2})
	require.NoError(t, err)

	tr.SplitText(txt, 1)
	assert.Equal(t, types.Position{Node: txt, Offset: 2}, sel.Focus)
	assert.Equal(t, 1, m.GetSelection().Focus.Offset)
	assert.NotEqual(t, txt, m.GetSelection().Focus.Node)
}

func TestRejectsInvalidAndNonEditable(t *testing.T) {
	tr, m := setup(t, `<p>abc</p><div contenteditable="false"><p>x</p></div>`)
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))
	locked := tr.FirstChild(tr.FirstChild(tr.Child(tr.Root(), 1)))

	bad := types.Position{Node: txt, Offset: 9}
	_, err := m.SetSelection(bad, bad, false)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	sel, err := m.SetCursor(bad)
	require.NoError(t, err)
	assert.Equal(t, types.Position{Node: txt, Offset: 3}, sel.Focus)

	_, err = m.SetSelection(types.Position{Node: txt, Offset: 0}, types.Position{Node: locked, Offset: 1}, false)
	assert.ErrorIs(t, err, ErrOutsideEditable)

	assert.Equal(t, types.Position{Node: txt, Offset: 3}, m.GetSelection().Focus)
}

func TestNonEditableAtomicIsNotNormalizedAway(t *testing.T) {
	tr, m := setup(t, `<p>abc<span contenteditable="false"><img/>hi</span></p>`)
	p := tr.FirstChild(tr.Root())
	txt := tr.FirstChild(p)
	span := tr.Child(p, 1)
	img := tr.FirstChild(span)
	hi := tr.Child(span, 1)

	_, err := m.SetCursor(types.Position{Node: txt, Offset: 1})
	require.NoError(t, err)
	_, err = m.SetSelection(types.Position{Node: hi, Offset: 0}, types.Position{Node: hi, Offset: 1}, true)
	assert.ErrorIs(t, err, ErrOutsideEditable)
	_, err = m.SetCursor(types.Position{Node: img, Offset: 0})
	assert.ErrorIs(t, err, ErrOutsideEditable)
	assert.Equal(t, types.Position{Node: txt, Offset: 1}, m.GetSelection().Focus)
}

func TestNormalizeLeavesAtomic(t *testing.T) {
	tr, m := setup(t, "<p>a<br/>b</p>")
	p := tr.FirstChild(tr.Root())
	br := tr.Child(p, 1)

	sel, err := m.SetCursor(types.Position{Node: br, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, types.Position{Node: p, Offset: 1}, sel.Focus)
}

func TestCursorStartEndAndEvents(t *testing.T) {
	tr, err := doc.ParseHTML("<p>abc</p>")
	require.NoError(t, err)
	events := event.NewManager()
	var seen []event.SelectionChangedData
	events.Subscribe(event.TypeSelectionChanged, func(e event.Event) bool {
		seen = append(seen, e.Data.(event.SelectionChangedData))
		return false
	})
	m := NewManager(tr, policy.Default(policy.DefaultConfig()), events)
	defer m.Close()

	txt := tr.FirstChild(tr.FirstChild(tr.Root()))
	sel, err := m.SetCursorEnd(txt)
	require.NoError(t, err)
	assert.Equal(t, types.Position{Node: txt, Offset: 3}, sel.Focus)
	_, err = m.SetCursorEnd(txt)
	require.NoError(t, err)
	sel, err = m.SetCursorStart(txt)
	require.NoError(t, err)
	assert.True(t, sel.IsCollapsed())
	assert.Len(t, seen, 2)
}
