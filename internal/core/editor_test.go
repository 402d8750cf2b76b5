package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

func newEditor(t *testing.T, src string) *Editor {
	t.Helper()
	e := NewEditor(policy.Default(policy.DefaultConfig()), event.NewManager(), Options{})
	require.NoError(t, e.LoadHTML(src))
	return e
}

func TestNewEditorIsEmptyParagraph(t *testing.T) {
	e := NewEditor(policy.Default(policy.DefaultConfig()), nil, Options{})
	assert.Equal(t, "<p>[]<br/></p>", e.Marked())
	assert.Empty(t, e.GetHistoryManager().Steps())
}

func TestLoadWithoutMarkers(t *testing.T) {
	e := newEditor(t, "<h1>Title</h1><p>x</p>")
	assert.Equal(t, "<h1>[]Title</h1><p>x</p>", e.Marked())
	assert.Equal(t, "Title\nx", e.Text())
}

func TestLoadNormalizesWithoutHistory(t *testing.T) {
	e := newEditor(t, "<p>a[]</p><div></div>")
	assert.Equal(t, "<p>a[]</p><div><br/></div>", e.Marked())
	assert.Empty(t, e.GetHistoryManager().Steps())
}

func TestUndoRedo(t *testing.T) {
	e := newEditor(t, "<p>abc</p><p>[]def</p>")
	out, err := e.DeleteBackward()
	require.NoError(t, err)
	require.Equal(t, edit.OutcomeApplied, out)
	require.Equal(t, "<p>abc[]def</p>", e.Marked())

	ok, err := e.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>abc</p><p>def</p>", e.HTML())

	ok, err = e.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>abcdef</p>", e.HTML())

	ok, err = e.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCutAndCopy(t *testing.T) {
	e := newEditor(t, "<p>a[bc</p><p>de]f</p>")
	require.True(t, e.Copy())
	assert.Equal(t, "bc\nde", e.GetClipboardManager().Get())
	assert.Equal(t, "<p>a[bc</p><p>de]f</p>", e.Marked())

	require.NoError(t, e.LoadHTML("<p>x[yz]</p>"))
	out, err := e.Cut()
	require.NoError(t, err)
	assert.Equal(t, edit.OutcomeApplied, out)
	assert.Equal(t, "yz", e.GetClipboardManager().Get())
	assert.Equal(t, "<p>x[]</p>", e.Marked())

	assert.False(t, e.Copy())
	out, err = e.Cut()
	require.NoError(t, err)
	assert.Equal(t, edit.OutcomeNoOp, out)
}

func TestMoveCursor(t *testing.T) {
	e := newEditor(t, "<p>a[]bc</p><p>d</p>")
	e.MoveCursor(types.Right, false)
	assert.Equal(t, "<p>ab[]c</p><p>d</p>", e.Marked())
	e.MoveCursor(types.Right, false)
	e.MoveCursor(types.Right, false)
	assert.Equal(t, "<p>abc</p><p>[]d</p>", e.Marked())
	e.MoveCursor(types.Left, false)
	assert.Equal(t, "<p>abc[]</p><p>d</p>", e.Marked())

	require.NoError(t, e.LoadHTML("<p>[]abc</p>"))
	e.MoveCursor(types.Right, true)
	e.MoveCursor(types.Right, true)
	assert.Equal(t, "<p>[ab]c</p>", e.Marked())
	e.MoveCursor(types.Left, false)
	assert.Equal(t, "<p>[]abc</p>", e.Marked())

	// Nothing before the document start.
	e.MoveCursor(types.Left, false)
	assert.Equal(t, "<p>[]abc</p>", e.Marked())
}

func TestMoveCursorOverLineBreak(t *testing.T) {
	e := newEditor(t, "<p>a[]<br/>b</p>")
	e.MoveCursor(types.Right, false)
	sel := e.GetSelection()
	assert.Equal(t, types.Position{Node: e.Tree().FirstChild(e.Tree().Root()), Offset: 2}, sel.Focus)
	e.MoveCursor(types.Right, false)
	assert.Equal(t, "<p>a<br/>b[]</p>", e.Marked())
}

func TestInsertText(t *testing.T) {
	e := newEditor(t, "<p>ab[]</p>")
	require.NoError(t, e.InsertText("c\u00e9"))
	assert.Equal(t, "<p>abc\u00e9[]</p>", e.Marked())
	assert.Len(t, e.GetHistoryManager().Steps(), 1)

	require.NoError(t, e.LoadHTML("<p>[]<br/></p>"))
	require.NoError(t, e.InsertText("x"))
	assert.Equal(t, "<p>x[]</p>", e.Marked())

	require.NoError(t, e.LoadHTML("<p>a[bc]d</p>"))
	require.NoError(t, e.InsertText("X"))
	assert.Equal(t, "<p>aX[]d</p>", e.Marked())
}

func TestHooksSurviveReload(t *testing.T) {
	e := newEditor(t, "<p>ab[]</p>")
	e.RegisterHook(edit.PreBackward, edit.Hook{Name: "stop", Fn: func(edit.HookContext) bool { return true }})
	require.NoError(t, e.LoadHTML("<p>cd[]</p>"))

	out, err := e.DeleteBackward()
	require.NoError(t, err)
	assert.Equal(t, edit.OutcomeIntercepted, out)

	e.UnregisterHook(edit.PreBackward, "stop")
	require.NoError(t, e.LoadHTML("<p>cd[]</p>"))
	out, err = e.DeleteBackward()
	require.NoError(t, err)
	assert.Equal(t, edit.OutcomeApplied, out)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	e := newEditor(t, "<p>ab[]</p>")
	require.Error(t, e.Save(""))
	require.NoError(t, e.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>ab</p>", string(data))

	events := event.NewManager()
	var loaded []string
	events.Subscribe(event.TypeDocumentLoaded, func(ev event.Event) bool {
		loaded = append(loaded, ev.Data.(event.DocumentLoadedData).FilePath)
		return false
	})
	other := NewEditor(policy.Default(policy.DefaultConfig()), events, Options{})
	require.NoError(t, other.Load(path))
	assert.Equal(t, "<p>ab</p>", other.HTML())
	assert.Equal(t, path, other.FilePath())
	assert.Equal(t, []string{path}, loaded)

	assert.Error(t, other.Load(filepath.Join(t.TempDir(), "missing.html")))
}

func TestIsModified(t *testing.T) {
	e := newEditor(t, "<p>ab[]</p>")
	assert.False(t, e.IsModified())
	_, err := e.DeleteBackward()
	require.NoError(t, err)
	assert.True(t, e.IsModified())

	_, err = e.Undo()
	require.NoError(t, err)
	assert.False(t, e.IsModified())

	_, err = e.Redo()
	require.NoError(t, err)
	require.NoError(t, e.Save(filepath.Join(t.TempDir(), "doc.html")))
	assert.False(t, e.IsModified())
}

func TestPaste(t *testing.T) {
	e := newEditor(t, "<p>a[]</p>")
	ok, err := e.Paste()
	require.NoError(t, err)
	assert.False(t, ok)

	e.GetClipboardManager().Set("b\nc")
	ok, err = e.Paste()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>ab c[]</p>", e.Marked())
}
