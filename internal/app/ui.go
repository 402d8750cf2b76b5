package app

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/render"
	"github.com/bethropolis/folio/internal/theme"
)

// drawEditor lays the document out and redraws the screen.
func (a *App) drawEditor() {
	if a.tuiManager == nil {
		return
	}
	activeTheme := a.themeManager.Current()
	width, height := a.tuiManager.Size()

	layout := render.Document(a.editor.Tree(), a.editor.Policy(), a.editor.GetSelection(), activeTheme, width)
	a.updateStatusBarContent(layout)
	logger.DebugTagf("draw", "drawEditor: %d layout lines on a %dx%d screen", len(layout.Lines), width, height)

	a.tuiManager.Clear()
	a.tuiManager.DrawLayout(layout, activeTheme)
	a.statusBar.Draw(a.tuiManager.GetScreen(), width, height, activeTheme)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar.
func (a *App) updateStatusBarContent(layout render.Layout) {
	a.statusBar.SetFileInfo(a.editor.FilePath(), a.editor.IsModified())

	info := "Ln -, Col -"
	if layout.HasCursor {
		info = fmt.Sprintf("Ln %d, Col %d", layout.Cursor.Y+1, layout.Cursor.X+1)
	}
	if selected := a.editor.SelectedText(); selected != "" {
		info += fmt.Sprintf(" (%d selected)", uniseg.GraphemeClusterCount(selected))
	}
	a.statusBar.SetSelectionInfo(info)
}

// SetStatusMessage shows a temporary message.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.requestRedraw()
}

// GetTheme returns the active theme.
func (a *App) GetTheme() *theme.Theme {
	return a.themeManager.Current()
}

// SetTheme activates a theme by name and redraws.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	if a.tuiManager != nil {
		a.tuiManager.SetTheme(a.themeManager.Current())
	}
	a.requestRedraw()
	return nil
}
