package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/logger"
)

// DefaultThemeName is active until another theme is chosen.
const DefaultThemeName = "Folio Dark"

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	mutex       sync.RWMutex
	themes      map[string]*Theme // lowercase name -> theme
	activeTheme *Theme
	themesDir   string
}

// NewManager loads the built-in themes and every *.toml file in themesDir
// (skipped when empty or missing).
func NewManager(themesDir string) *Manager {
	mgr := &Manager{
		themes:    make(map[string]*Theme),
		themesDir: themesDir,
	}
	for _, t := range []Theme{FolioDark, FolioLight} {
		t := t
		mgr.themes[strings.ToLower(t.Name)] = &t
	}
	mgr.activeTheme = mgr.themes[strings.ToLower(DefaultThemeName)]

	if themesDir != "" {
		if err := mgr.LoadThemesFromDir(); err != nil {
			logger.Errorf("Error loading themes from '%s': %v", themesDir, err)
		}
	}
	return mgr
}

// DefaultDir is the user theme directory under the config dir.
func DefaultDir(appName string) string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logger.Warnf("Could not find user config dir: %v. Themes cannot be loaded from default location.", err)
		return ""
	}
	return filepath.Join(configDir, appName, "themes")
}

// LoadThemesFromDir scans the themes directory and loads .toml files. A
// file that fails to load is logged and skipped.
func (m *Manager) LoadThemesFromDir() error {
	files, err := os.ReadDir(m.themesDir)
	if os.IsNotExist(err) {
		logger.Debugf("Theme directory '%s' does not exist. No custom themes loaded.", m.themesDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", m.themesDir, err)
	}

	loadedCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		filePath := filepath.Join(m.themesDir, file.Name())
		theme, err := LoadThemeFromFile(filePath, m.GetTheme)
		if err != nil {
			logger.Warnf("Failed to load theme: %v", err)
			continue
		}
		m.mutex.Lock()
		key := strings.ToLower(theme.Name)
		if existing, ok := m.themes[key]; ok {
			logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", theme.Name, filePath, existing.Name)
		}
		m.themes[key] = theme
		m.mutex.Unlock()
		loadedCount++
	}
	logger.Infof("Loaded %d custom themes from %s.", loadedCount, m.themesDir)
	return nil
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.activeTheme == nil {
		return &Theme{Name: "Failsafe", Styles: map[string]tcell.Style{"Default": tcell.StyleDefault}}
	}
	return m.activeTheme
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	theme, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.activeTheme != theme {
		m.activeTheme = theme
		logger.Infof("Active theme set to: %s", theme.Name)
	}
	return nil
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.themes))
	for _, theme := range m.themes {
		names = append(names, theme.Name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a specific theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	theme, ok := m.themes[strings.ToLower(name)]
	return theme, ok
}
