package commands

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/theme"
)

type fakeApp struct {
	*theme.Manager
	editor   *core.Editor
	commands map[string]plugin.CommandFunc
	messages []string
	quit     int
}

func newFakeApp(t *testing.T, src string) *fakeApp {
	t.Helper()
	ed := core.NewEditor(policy.Default(policy.DefaultConfig()), nil, core.Options{})
	require.NoError(t, ed.LoadHTML(src))
	app := &fakeApp{Manager: theme.NewManager(""), editor: ed, commands: map[string]plugin.CommandFunc{}}
	RegisterAppCommands(app, app)
	return app
}

func (a *fakeApp) GetTheme() *theme.Theme { return a.Current() }
func (a *fakeApp) Editor() *core.Editor    { return a.editor }
func (a *fakeApp) PluginNames() []string  { return []string{"tables", "media"} }

func (a *fakeApp) SetStatusMessage(format string, args ...interface{}) {
	a.messages = append(a.messages, fmt.Sprintf(format, args...))
}

func (a *fakeApp) RequestQuit(force bool) error {
	if !force && a.editor.IsModified() {
		return fmt.Errorf("unsaved changes")
	}
	a.quit++
	return nil
}

func (a *fakeApp) RegisterCommand(name string, fn plugin.CommandFunc) error {
	if _, ok := a.commands[name]; ok {
		return fmt.Errorf("duplicate %s", name)
	}
	a.commands[name] = fn
	return nil
}

func (a *fakeApp) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	fn, ok := a.commands[name]
	require.True(t, ok, "command %s", name)
	return fn(args)
}

func (a *fakeApp) last() string {
	if len(a.messages) == 0 {
		return ""
	}
	return a.messages[len(a.messages)-1]
}

func TestThemeCommands(t *testing.T) {
	app := newFakeApp(t, "<p>a[]</p>")
	require.NoError(t, app.run(t, "theme"))
	assert.Equal(t, "Current theme: Folio Dark", app.last())

	require.NoError(t, app.run(t, "theme", "folio", "light"))
	assert.Equal(t, "Theme set to: Folio Light", app.last())

	err := app.run(t, "theme", "sepia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available: Folio Dark, Folio Light")

	require.NoError(t, app.run(t, "themes"))
	assert.Equal(t, "Available themes: Folio Dark, Folio Light", app.last())
}

func TestWriteAndQuit(t *testing.T) {
	app := newFakeApp(t, "<p>ab[]</p>")
	_, err := app.editor.DeleteBackward()
	require.NoError(t, err)

	assert.Error(t, app.run(t, "q"))
	assert.Error(t, app.run(t, "w"), "no file name yet")

	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, app.run(t, "wq", path))
	assert.Equal(t, "Saved to "+path, app.last())
	assert.Equal(t, 1, app.quit)

	require.NoError(t, app.run(t, "q!"))
	assert.Equal(t, 2, app.quit)
}

func TestUndoRedoCommands(t *testing.T) {
	app := newFakeApp(t, "<p>ab[]</p>")
	require.NoError(t, app.run(t, "undo"))
	assert.Equal(t, "Nothing to undo", app.last())

	_, err := app.editor.DeleteBackward()
	require.NoError(t, err)
	require.NoError(t, app.run(t, "undo"))
	assert.Equal(t, "<p>ab</p>", app.editor.HTML())
	require.NoError(t, app.run(t, "redo"))
	assert.Equal(t, "<p>a</p>", app.editor.HTML())
}

func TestRulesAndExplain(t *testing.T) {
	app := newFakeApp(t, "<h1>a[]b</h1>")
	require.NoError(t, app.run(t, "rules", "demotable"))
	assert.Equal(t, "demotable: demotable-tags", app.last())
	assert.Error(t, app.run(t, "rules", "sticky"))

	require.NoError(t, app.run(t, "explain"))
	assert.Equal(t, "<h1>: block (block-tags), paragraph-like (paragraph-like-tags), demotable (demotable-tags); editable", app.last())

	require.NoError(t, app.run(t, "plugins"))
	assert.Equal(t, "Plugins: tables, media", app.last())
}
