package tui

import (
	"github.com/bethropolis/folio/internal/render"
	"github.com/bethropolis/folio/internal/theme"
)

// statusBarHeight is reserved at the bottom of the screen.
const statusBarHeight = 1

// ViewHeight is the number of rows available to the document.
func (t *TUI) ViewHeight() int {
	_, height := t.Size()
	return height - statusBarHeight
}

// scrollTo returns the first visible line that keeps line y on screen.
func scrollTo(top, y, viewHeight int) int {
	switch {
	case viewHeight <= 0:
		return 0
	case y < top:
		return y
	case y >= top+viewHeight:
		return y - viewHeight + 1
	}
	return top
}

// DrawLayout draws the visible part of a layout, scrolled so the cursor
// stays on screen, and places the terminal cursor.
func (t *TUI) DrawLayout(layout render.Layout, activeTheme *theme.Theme) {
	width, _ := t.Size()
	viewHeight := t.ViewHeight()
	if viewHeight <= 0 || width <= 0 {
		return
	}
	if layout.HasCursor {
		t.viewTop = scrollTo(t.viewTop, layout.Cursor.Y, viewHeight)
	}
	if t.viewTop >= len(layout.Lines) {
		t.viewTop = 0
	}

	defaultStyle := activeTheme.GetStyle("Default")
	for screenY := 0; screenY < viewHeight; screenY++ {
		for fillX := 0; fillX < width; fillX++ {
			t.screen.SetContent(fillX, screenY, ' ', nil, defaultStyle)
		}
		lineIdx := screenY + t.viewTop
		if lineIdx >= len(layout.Lines) {
			continue
		}
		x := 0
		for _, c := range layout.Lines[lineIdx] {
			if x+c.Width > width {
				break
			}
			t.screen.SetContent(x, screenY, c.Rune, c.Combining, c.Style)
			for cw := 1; cw < c.Width; cw++ {
				t.screen.SetContent(x+cw, screenY, ' ', nil, c.Style)
			}
			x += c.Width
		}
	}

	screenY := layout.Cursor.Y - t.viewTop
	if !layout.HasCursor || screenY < 0 || screenY >= viewHeight || layout.Cursor.X >= width {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(layout.Cursor.X, screenY)
}
