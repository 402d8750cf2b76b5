// Package commands registers the built-in ":" commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

// Registrar is where commands go.
type Registrar interface {
	RegisterCommand(name string, cmdFunc plugin.CommandFunc) error
}

// RegisterAppCommands registers the built-in commands.
func RegisterAppCommands(reg Registrar, app AppAPI) {
	RegisterThemeCommands(reg, app)

	cmds := map[string]plugin.CommandFunc{
		"w":       func(args []string) error { return write(app, args) },
		"q":       func([]string) error { return app.RequestQuit(false) },
		"q!":      func([]string) error { return app.RequestQuit(true) },
		"wq":      func(args []string) error { return writeQuit(app, args) },
		"undo":    func([]string) error { return undo(app, app.Editor().Undo, "undo") },
		"redo":    func([]string) error { return undo(app, app.Editor().Redo, "redo") },
		"rules":   func(args []string) error { return rules(app, args) },
		"explain": func([]string) error { return explain(app) },
		"plugins": func([]string) error {
			app.SetStatusMessage("Plugins: %s", strings.Join(app.PluginNames(), ", "))
			return nil
		},
	}
	for name, fn := range cmds {
		if err := reg.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
}

// RegisterThemeCommands registers only theme-related commands.
func RegisterThemeCommands(reg Registrar, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			themeAPI.SetStatusMessage("Current theme: %s", themeAPI.GetTheme().Name)
			return nil
		}
		themeName := strings.Join(args, " ")
		if err := themeAPI.SetTheme(themeName); err != nil {
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, strings.Join(themeAPI.ListThemes(), ", "))
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeAPI.GetTheme().Name)
		return nil
	}
	themeListCmdFunc := func([]string) error {
		themeAPI.SetStatusMessage("Available themes: %s", strings.Join(themeAPI.ListThemes(), ", "))
		return nil
	}

	if err := reg.RegisterCommand("theme", themeCmdFunc); err != nil {
		logger.Warnf("Failed to register ':theme' command: %v", err)
	}
	if err := reg.RegisterCommand("themes", themeListCmdFunc); err != nil {
		logger.Warnf("Failed to register ':themes' command: %v", err)
	}
}

func write(app AppAPI, args []string) error {
	ed := app.Editor()
	if err := ed.Save(strings.Join(args, " ")); err != nil {
		return err
	}
	app.SetStatusMessage("Saved to %s", ed.FilePath())
	return nil
}

func writeQuit(app AppAPI, args []string) error {
	if err := write(app, args); err != nil {
		return err
	}
	return app.RequestQuit(false)
}

func undo(app AppAPI, op func() (bool, error), name string) error {
	ok, err := op()
	if err != nil {
		return err
	}
	if !ok {
		app.SetStatusMessage("Nothing to %s", name)
	}
	return nil
}

// rules lists the rule names of a capability, or of all capabilities.
func rules(app AppAPI, args []string) error {
	caps := app.Editor().Policy()
	list := policy.All()
	if len(args) > 0 {
		cp, err := policy.ParseCapability(args[0])
		if err != nil {
			return err
		}
		list = []policy.Capability{cp}
	}
	parts := make([]string, 0, len(list))
	for _, cp := range list {
		parts = append(parts, fmt.Sprintf("%v: %s", cp, strings.Join(caps.Rules(cp), ", ")))
	}
	app.SetStatusMessage("%s", strings.Join(parts, "; "))
	return nil
}

// explain names the capabilities of the element at the cursor and the rule
// that grants each.
func explain(app AppAPI) error {
	app.SetStatusMessage("%s", Explain(app.Editor()))
	return nil
}

// Explain describes the element at the cursor, e.g.
// "<p>: block (block-tags), paragraph-like (paragraph-like-tags); editable".
func Explain(ed *core.Editor) string {
	t := ed.Tree()
	caps := ed.Policy()
	focus := ed.GetSelection().Focus
	n := t.Closest(focus.Node, t.IsElement)
	if n == types.NoNode {
		return "no element at the cursor"
	}

	var granted []string
	for _, cp := range policy.All() {
		if rule := caps.Explain(cp, t, n); rule != "" {
			granted = append(granted, fmt.Sprintf("%v (%s)", cp, rule))
		}
	}
	if len(granted) == 0 {
		granted = []string{"inline"}
	}
	editable := "read-only"
	if caps.IsEditable(t, n) {
		editable = "editable"
	}
	return fmt.Sprintf("<%s>: %s; %s", t.Tag(n), strings.Join(granted, ", "), editable)
}
