package modehandler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/statusbar"
)

type fixture struct {
	mh     *ModeHandler
	editor *core.Editor
	status *statusbar.StatusBar
	quit   chan struct{}
}

func newFixture(t *testing.T, src string) *fixture {
	t.Helper()
	events := event.NewManager()
	ed := core.NewEditor(policy.Default(policy.DefaultConfig()), events, core.Options{})
	require.NoError(t, ed.LoadHTML(src))
	f := &fixture{editor: ed, status: statusbar.New(0), quit: make(chan struct{})}
	f.mh = New(Config{
		Editor:         ed,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   events,
		StatusBar:      f.status,
		QuitSignal:     f.quit,
	})
	return f
}

func (f *fixture) keys(t *testing.T, words ...string) {
	t.Helper()
	for _, w := range words {
		evs, err := input.ParseScript(w)
		require.NoError(t, err)
		for _, ev := range evs {
			f.mh.HandleAction(ev)
		}
	}
}

func (f *fixture) quitClosed() bool {
	select {
	case <-f.quit:
		return true
	default:
		return false
	}
}

func TestNormalModeEditing(t *testing.T) {
	f := newFixture(t, "<p>ab[]c</p>")
	f.keys(t, "backspace")
	assert.Equal(t, "<p>a[]c</p>", f.editor.Marked())

	f.keys(t, "type:xy")
	assert.Equal(t, "<p>axy[]c</p>", f.editor.Marked())

	f.keys(t, "shift+left", "shift+left", "range")
	assert.Equal(t, "<p>a[]c</p>", f.editor.Marked())

	f.keys(t, "undo")
	assert.Equal(t, "<p>axyc</p>", f.editor.HTML())

	f.keys(t, "redo", "redo")
	text, _ := f.status.Line()
	assert.Equal(t, "Nothing to redo", text)
}

func TestCommandMode(t *testing.T) {
	f := newFixture(t, "<p>a[]</p>")
	var got []string
	require.NoError(t, f.mh.RegisterCommand("hello", func(args []string) error {
		got = args
		return nil
	}))
	require.NoError(t, f.mh.RegisterCommand("fail", func([]string) error {
		return errors.New("boom")
	}))
	assert.Error(t, f.mh.RegisterCommand("hello", nil))
	assert.Error(t, f.mh.RegisterCommand("", nil))
	assert.Equal(t, []string{"fail", "hello"}, f.mh.Commands())

	f.mh.HandleAction(input.ActionEvent{Action: input.ActionEnterCommandMode, Rune: ':'})
	require.Equal(t, ModeCommand, f.mh.GetCurrentMode())
	f.keys(t, "type:hello worlds", "backspace")
	assert.Equal(t, "hello world", f.mh.GetCommandBuffer())
	text, style := f.status.Line()
	assert.Equal(t, ":hello world", text)
	assert.Equal(t, "StatusBarCommand", style)

	f.keys(t, "enter")
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, []string{"world"}, got)
	assert.Equal(t, "<p>a[]</p>", f.editor.Marked(), "typed command text stays out of the document")

	assert.Error(t, f.mh.ExecuteCommand("fail now"))
	text, _ = f.status.Line()
	assert.Equal(t, "Error executing command 'fail': boom", text)

	assert.Error(t, f.mh.ExecuteCommand("nope"))
	text, _ = f.status.Line()
	assert.Equal(t, "Unknown command: nope", text)
}

func TestCommandModeCancel(t *testing.T) {
	f := newFixture(t, "<p>a[]</p>")
	f.mh.HandleAction(input.ActionEvent{Action: input.ActionEnterCommandMode, Rune: ':'})
	f.keys(t, "backspace")
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())

	f.mh.HandleAction(input.ActionEvent{Action: input.ActionEnterCommandMode, Rune: ':'})
	f.keys(t, "type:q", "quit")
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.False(t, f.quitClosed())
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	f := newFixture(t, "<p>ab[]</p>")
	f.keys(t, "backspace", "quit")
	assert.False(t, f.quitClosed())
	text, _ := f.status.Line()
	assert.Contains(t, text, "Unsaved changes")

	assert.Error(t, f.mh.RequestQuit(false))
	f.keys(t, "quit")
	assert.True(t, f.quitClosed())

	// Quitting twice does not panic on the closed channel.
	require.NoError(t, f.mh.RequestQuit(true))
}
