// Package plugintest provides an in-memory EditorAPI for plugin tests.
package plugintest

import (
	"fmt"
	"sync"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
)

var _ plugin.EditorAPI = (*API)(nil)

// API is an EditorAPI over a real editor without a terminal. Scheduled
// functions queue until RunScheduled.
type API struct {
	Editor   *core.Editor
	Events   *event.Manager
	Commands map[string]plugin.CommandFunc
	Config   map[string]map[string]interface{}

	mu        sync.Mutex
	messages  []string
	scheduled []func()
}

// New returns an API over an empty default editor.
func New() *API {
	events := event.NewManager()
	return &API{
		Editor:   core.NewEditor(policy.Default(policy.DefaultConfig()), events, core.Options{}),
		Events:   events,
		Commands: map[string]plugin.CommandFunc{},
		Config:   map[string]map[string]interface{}{},
	}
}

// Run executes a registered command.
func (a *API) Run(name string, args ...string) error {
	fn, ok := a.Commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return fn(args)
}

// Messages returns the status messages set so far.
func (a *API) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// RunScheduled runs and clears the queued functions. It returns how many ran.
func (a *API) RunScheduled() int {
	a.mu.Lock()
	fns := a.scheduled
	a.scheduled = nil
	a.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (a *API) GetDocumentHTML() string           { return a.Editor.HTML() }
func (a *API) GetDocumentText() string           { return a.Editor.Text() }
func (a *API) GetSelectedText() string           { return a.Editor.SelectedText() }
func (a *API) GetSelection() selection.Selection { return a.Editor.GetSelection() }
func (a *API) GetFilePath() string               { return a.Editor.FilePath() }
func (a *API) IsModified() bool                  { return a.Editor.IsModified() }
func (a *API) Save() error                       { return a.Editor.Save("") }

func (a *API) RegisterRule(cp policy.Capability, rule policy.Rule) {
	a.Editor.Policy().Register(cp, rule)
}

func (a *API) RegisterHook(point edit.HookPoint, hook edit.Hook) {
	a.Editor.RegisterHook(point, hook)
}

func (a *API) DispatchEvent(eventType event.Type, data interface{}) {
	a.Events.Dispatch(eventType, data)
}

func (a *API) SubscribeEvent(eventType event.Type, handler event.Handler) func() {
	return a.Events.Subscribe(eventType, handler)
}

func (a *API) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if _, exists := a.Commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	a.Commands[name] = cmdFunc
	return nil
}

func (a *API) SetStatusMessage(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, fmt.Sprintf(format, args...))
}

func (a *API) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	v, ok := a.Config[pluginName][key]
	return v, ok
}

func (a *API) Schedule(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scheduled = append(a.scheduled, fn)
}
