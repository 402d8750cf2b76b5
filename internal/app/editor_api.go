package app

import (
	"github.com/bethropolis/folio/internal/commands"
	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/theme"
)

var (
	_ plugin.EditorAPI = (*appEditorAPI)(nil)
	_ commands.AppAPI  = (*appEditorAPI)(nil)
)

// appEditorAPI is the surface plugins and built-in commands see.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document Access ---

func (api *appEditorAPI) GetDocumentHTML() string           { return api.app.editor.HTML() }
func (api *appEditorAPI) GetDocumentText() string           { return api.app.editor.Text() }
func (api *appEditorAPI) GetSelectedText() string           { return api.app.editor.SelectedText() }
func (api *appEditorAPI) GetSelection() selection.Selection { return api.app.editor.GetSelection() }
func (api *appEditorAPI) GetFilePath() string               { return api.app.editor.FilePath() }
func (api *appEditorAPI) IsModified() bool                  { return api.app.editor.IsModified() }

func (api *appEditorAPI) Save() error {
	return api.app.editor.Save("")
}

// --- Structure ---

func (api *appEditorAPI) RegisterRule(cp policy.Capability, rule policy.Rule) {
	logger.Debugf("API: registering %v rule %q", cp, rule.Name)
	api.app.editor.Policy().Register(cp, rule)
	api.app.requestRedraw()
}

func (api *appEditorAPI) RegisterHook(point edit.HookPoint, hook edit.Hook) {
	logger.Debugf("API: registering %v hook %q", point, hook.Name)
	api.app.editor.RegisterHook(point, hook)
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) func() {
	return api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Configuration ---

func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}

func (api *appEditorAPI) Schedule(fn func()) {
	api.app.schedule(fn)
}

// --- Built-in command support ---

func (api *appEditorAPI) Editor() *core.Editor { return api.app.editor }

func (api *appEditorAPI) GetTheme() *theme.Theme { return api.app.GetTheme() }

func (api *appEditorAPI) SetTheme(name string) error { return api.app.SetTheme(name) }

func (api *appEditorAPI) ListThemes() []string { return api.app.themeManager.ListThemes() }

func (api *appEditorAPI) RequestQuit(force bool) error {
	return api.app.modeHandler.RequestQuit(force)
}

func (api *appEditorAPI) PluginNames() []string {
	return api.app.pluginManager.Names()
}
