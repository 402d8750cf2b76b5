package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/render"
	"github.com/bethropolis/folio/internal/theme"
)

func TestScrollTo(t *testing.T) {
	assert.Equal(t, 0, scrollTo(0, 3, 5))
	assert.Equal(t, 2, scrollTo(0, 6, 5))
	assert.Equal(t, 1, scrollTo(4, 1, 5))
	assert.Equal(t, 0, scrollTo(4, 9, 0))
}

func lineOf(s string) []render.Cell {
	var cells []render.Cell
	for _, r := range s {
		cells = append(cells, render.Cell{Rune: r, Width: 1})
	}
	return cells
}

func TestDrawLayout(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	th := theme.FolioLight
	ui, err := NewWithScreen(sim, &th)
	require.NoError(t, err)
	defer ui.Close()
	sim.SetSize(10, 3)

	layout := render.Layout{
		Lines:     [][]render.Cell{lineOf("p one"), lineOf("p two"), lineOf("p three")},
		Cursor:    render.Point{X: 4, Y: 2},
		HasCursor: true,
	}
	ui.DrawLayout(layout, &th)
	ui.Show()

	cells, w, _ := sim.GetContents()
	row := func(y int) string {
		var rs []rune
		for x := 0; x < w; x++ {
			rs = append(rs, cells[y*w+x].Runes...)
		}
		return string(rs)
	}
	// Two rows fit above the status bar; the cursor line scrolls into view.
	assert.Equal(t, "p two     ", row(0))
	assert.Equal(t, "p three   ", row(1))

	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 4, x)
	assert.Equal(t, 1, y)
}
