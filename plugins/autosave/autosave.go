package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/utils"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	// Default configuration values
	defaultEnabled  = false
	defaultInterval = 2 * time.Second
)

// AutoSave saves the document once edits have been quiet for the configured
// interval. Each committed step restarts the wait.
type AutoSave struct {
	api plugin.EditorAPI

	// Configuration
	mutex    sync.RWMutex // Protects access to config fields below
	enabled  bool
	interval time.Duration

	// Runtime state
	debouncer   utils.Debouncer
	unsubscribe func()
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and subscribes to committed steps if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	} else {
		logger.Debugf("%s: Config 'enabled' not found, using default (%v)", pluginName, p.enabled)
	}

	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if strVal, isStr := intervalVal.(string); isStr {
			parsedInterval, err := time.ParseDuration(strVal)
			if err != nil {
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", pluginName, strVal, err, p.interval)
			} else if parsedInterval <= 0 {
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", pluginName, strVal, p.interval)
			} else {
				p.interval = parsedInterval
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", pluginName, intervalVal, p.interval)
		}
	} else {
		logger.Debugf("%s: Config 'interval' not found, using default (%v)", pluginName, p.interval)
	}
	isEnabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)

	if isEnabled {
		p.unsubscribe = api.SubscribeEvent(event.TypeStepCommitted, p.handleStepCommitted)
	}
	return nil
}

// Shutdown cancels a pending save.
func (p *AutoSave) Shutdown() error {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	if p.debouncer.Stop() {
		logger.Debugf("%s: Pending save cancelled.", p.Name())
	}
	return nil
}

func (p *AutoSave) handleStepCommitted(event.Event) bool {
	p.mutex.RLock()
	interval := p.interval
	p.mutex.RUnlock()

	// The timer fires on its own goroutine; the save itself runs on the UI one.
	p.debouncer.Debounce(interval, func() {
		p.api.Schedule(p.saveIfModified)
	})
	return false
}

// saveIfModified saves the document to the file it came from.
func (p *AutoSave) saveIfModified() {
	if !p.api.IsModified() {
		logger.Debugf("%s: Document not modified, skipping auto-save.", p.Name())
		return
	}
	filePath := p.api.GetFilePath()
	if filePath == "" {
		logger.Debugf("%s: Document is modified but has no file, skipping auto-save.", p.Name())
		return
	}

	if err := p.api.Save(); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), filePath, err)
		p.api.SetStatusMessage("%s: Auto-save failed: %v", p.Name(), err)
		return
	}
	logger.Infof("%s: Auto-saved %s", p.Name(), filePath)
}
