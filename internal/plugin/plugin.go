// Package plugin defines the surface plugins see. Plugins extend the editor
// by registering classification rules, engine hooks and commands; they never
// reach into the document managers directly.
package plugin

import (
	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/policy"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EditorAPI defines the methods plugins can use to interact with the editor core.
// This acts as a controlled interface, preventing plugins from accessing everything.
//
// Except for Schedule, methods must be called from the UI goroutine. Event
// handlers and commands already run there.
type EditorAPI interface {
	// --- Document Access ---
	GetDocumentHTML() string
	GetDocumentText() string
	GetSelectedText() string
	GetSelection() selection.Selection
	GetFilePath() string
	IsModified() bool
	Save() error

	// --- Structure ---
	// RegisterRule extends the classification vocabulary. A rule with an
	// existing name replaces it.
	RegisterRule(cp policy.Capability, rule policy.Rule)
	// RegisterHook installs a hook that runs before the default deletion
	// algorithm at point.
	RegisterHook(point edit.HookPoint, hook edit.Hook)

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) (unsubscribe func())

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)

	// Schedule runs fn on the UI goroutine. Safe to call from any goroutine.
	Schedule(fn func())
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	// Used for setup, subscribing to events, registering rules and commands.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
