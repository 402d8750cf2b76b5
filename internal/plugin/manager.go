package plugin

import (
	"fmt"
	"sync"

	"github.com/bethropolis/folio/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
// Plugins are initialized and shut down in registration order.
type Manager struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	started []string
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = plugin
	m.order = append(m.order, name)
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin. A plugin
// that fails to initialize is logged and skipped; the others still load. The
// returned error is the first failure.
func (m *Manager) InitializePlugins(api EditorAPI) error {
	m.mu.RLock()
	pluginsToInit := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		pluginsToInit = append(pluginsToInit, m.plugins[name])
	}
	m.mu.RUnlock() // Unlock before calling plugin Init methods

	logger.Infof("Plugin Manager: Initializing %d plugins...", len(pluginsToInit))
	var firstErr error
	for _, plugin := range pluginsToInit {
		if err := plugin.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: ERROR initializing plugin '%s': %v", plugin.Name(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("initialize plugin '%s': %w", plugin.Name(), err)
			}
			continue
		}
		m.mu.Lock()
		m.started = append(m.started, plugin.Name())
		m.mu.Unlock()
		logger.Debugf("Plugin Manager: Successfully initialized plugin '%s'", plugin.Name())
	}
	return firstErr
}

// ShutdownPlugins calls Shutdown on the initialized plugins, last first.
func (m *Manager) ShutdownPlugins() {
	m.mu.Lock()
	started := m.started
	m.started = nil
	m.mu.Unlock()

	logger.Debugf("Plugin Manager: Shutting down %d plugins...", len(started))
	for i := len(started) - 1; i >= 0; i-- {
		m.mu.RLock()
		plugin := m.plugins[started[i]]
		m.mu.RUnlock()
		if err := plugin.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: ERROR shutting down plugin '%s': %v", plugin.Name(), err)
		}
	}
}

// GetPlugin returns a registered plugin by name (e.g., for inter-plugin communication). Use cautiously.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names lists the registered plugins in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}
