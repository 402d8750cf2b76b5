package statusbar

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/theme"
)

func TestLine(t *testing.T) {
	sb := New(time.Second)
	clock := time.Unix(100, 0)
	sb.now = func() time.Time { return clock }

	sb.SetSelectionInfo("cursor 3:1")
	text, style := sb.Line()
	assert.Equal(t, "[No Name] -- cursor 3:1", text)
	assert.Equal(t, "StatusBar", style)

	sb.SetFileInfo("notes.html", true)
	sb.SetEditorMode("NORMAL")
	text, style = sb.Line()
	assert.Equal(t, "notes.html [Modified] -- cursor 3:1 -- NORMAL", text)
	assert.Equal(t, "StatusBarModified", style)

	sb.SetTemporaryMessage("saved %d bytes", 12)
	text, style = sb.Line()
	assert.Equal(t, "saved 12 bytes", text)
	assert.Equal(t, "StatusBarMessage", style)

	sb.SetCommandInput("")
	text, _ = sb.Line()
	assert.Equal(t, ":", text)

	sb.SetCommandInput("theme")
	text, style = sb.Line()
	assert.Equal(t, ":theme", text)
	assert.Equal(t, "StatusBarCommand", style)
	sb.ClearCommandInput()

	clock = clock.Add(2 * time.Second)
	text, _ = sb.Line()
	assert.Equal(t, "notes.html [Modified] -- cursor 3:1 -- NORMAL", text)
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(12, 3)

	sb := New(0)
	sb.SetTemporaryMessage("caf\u00e9 ok, longer than the bar")
	th := theme.FolioDark
	sb.Draw(screen, 12, 3, &th)
	screen.Show()

	cells, w, _ := screen.GetContents()
	var got []rune
	for x := 0; x < w; x++ {
		got = append(got, cells[2*w+x].Runes...)
	}
	assert.Equal(t, "caf\u00e9 ok, lon", string(got))
}
