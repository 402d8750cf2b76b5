package commands

import (
	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/theme"
)

// ThemeAPI is what the theme commands need from the application.
type ThemeAPI interface {
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
	SetStatusMessage(format string, args ...interface{})
}

// AppAPI is what the built-in application commands need.
type AppAPI interface {
	ThemeAPI
	Editor() *core.Editor
	RequestQuit(force bool) error
	PluginNames() []string
}
