package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/config"
)

func TestRunScript(t *testing.T) {
	res, err := RunScript(Options{}, "<p>abc</p><p>[]def</p>", []string{"backspace", "type:X", "shift+left", "range"})
	require.NoError(t, err)
	assert.Equal(t, "<p>abc[]def</p>", res.Marked)
	assert.Empty(t, res.Rejections)

	_, err = RunScript(Options{}, "<p>a[]</p>", []string{"jump"})
	assert.Error(t, err)
}

func TestPrintScriptReportsRejections(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Policy.UnremovableTags = []string{"x-lock"}

	var out bytes.Buffer
	require.NoError(t, PrintScript(&out, Options{Config: cfg}, "<p>ab<x-lock></x-lock>[]</p>", []string{"backspace"}))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "<p>ab<x-lock></x-lock>[]</p>", string(lines[0]))
	assert.Contains(t, string(lines[1]), "rejected: ")
	assert.Contains(t, string(lines[1]), "unremovable-tags")
}

func TestScriptUsesPlugins(t *testing.T) {
	res, err := RunScript(Options{}, "<table><tbody><tr><td>a</td><td>[]b</td></tr></tbody></table>", []string{"backspace"})
	require.NoError(t, err)
	assert.Equal(t, "<table><tbody><tr><td>a</td><td>[]b</td></tr></tbody></table>", res.Marked)
}

func newPlayground(t *testing.T, path string) (*App, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	a, err := NewApp(Options{FilePath: path, Screen: sim, ThemesDir: t.TempDir()})
	require.NoError(t, err)
	sim.SetSize(30, 5)
	return a, sim
}

func screenRow(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var rs []rune
	for x := 0; x < w; x++ {
		rs = append(rs, cells[y*w+x].Runes...)
	}
	return strings.TrimRight(string(rs), " ")
}

func TestPlaygroundEditsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>Title</h1><p>body</p>"), 0o644))
	a, sim := newPlayground(t, path)
	defer a.Close()

	a.drawEditor()
	assert.Equal(t, "h1 Title", screenRow(sim, 0))
	assert.Equal(t, "p body", screenRow(sim, 1))
	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, []int{3, 0}, []int{x, y})

	assert.True(t, a.handleEvent(tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone)))
	assert.Equal(t, "<h1>itle</h1><p>body</p>", a.editor.HTML())
	assert.True(t, a.editor.IsModified())

	a.handleEvent(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>itle</h1><p>body</p>", string(data))
	assert.False(t, a.editor.IsModified())

	for _, r := range ":theme folio light" {
		a.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	a.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, "Folio Light", a.GetTheme().Name)
}

func TestPlaygroundNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.html")
	a, _ := newPlayground(t, path)
	defer a.Close()
	assert.Equal(t, path, a.editor.FilePath())
	assert.Equal(t, "<p>[]<br/></p>", a.editor.Marked())
}

func TestRunQuitsOnForceQuit(t *testing.T) {
	a, sim := newPlayground(t, "")
	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Ctrl+Q")
	}
}

func TestScheduleRunsOnMainLoop(t *testing.T) {
	a, err := NewApp(Options{Headless: true})
	require.NoError(t, err)
	defer a.Close()

	ran := 0
	a.editorAPI.Schedule(func() { ran++ })
	a.editorAPI.Schedule(func() { ran++ })
	a.runPendingTasks()
	assert.Equal(t, 2, ran)
	assert.ElementsMatch(t, []string{"tables", "media", "wordcount", "autosave"}, a.editorAPI.PluginNames())
}
