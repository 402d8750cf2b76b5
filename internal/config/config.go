// Package config loads the application configuration: defaults, then the
// TOML file, then command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/policy"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                    `toml:"logger"`
	Editor  EditorConfig                     `toml:"editor"`
	Policy  policy.Config                    `toml:"policy"`
	Plugins map[string]map[string]interface{} `toml:"plugins"`
}

// EditorConfig holds edit engine and editor settings.
type EditorConfig struct {
	MaxIterations   int    `toml:"max_iterations"`
	MaxSteps        int    `toml:"max_steps"`
	SystemClipboard bool   `toml:"system_clipboard"`
	ParagraphTag    string `toml:"paragraph_tag"`
	// Theme names the playground theme; empty keeps the built-in default.
	Theme           string `toml:"theme"`
}

var (
	loadedConfig *Config
	loadMu       sync.Mutex
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			MaxIterations:   DefaultMaxIterations,
			MaxSteps:        DefaultMaxSteps,
			SystemClipboard: SystemClipboard,
			ParagraphTag:    policy.DefaultConfig().ParagraphTag,
		},
		Policy:  policy.DefaultConfig(),
		Plugins: map[string]map[string]interface{}{},
	}
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.MaxIterations <= 0 {
		c.Editor.MaxIterations = defaults.Editor.MaxIterations
	}
	if c.Editor.MaxSteps < 0 {
		c.Editor.MaxSteps = defaults.Editor.MaxSteps
	}
	if c.Editor.ParagraphTag == "" {
		c.Editor.ParagraphTag = defaults.Editor.ParagraphTag
	}
	// [editor] paragraph_tag wins over the policy table's.
	c.Policy.ParagraphTag = c.Editor.ParagraphTag

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]interface{}{}
	}
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// LoadConfig loads defaults, the file at configFilePath (or DefaultPath) and
// flag overrides, validates the result and stores it for Get.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	cfg := NewDefaultConfig()
	path := configFilePath
	if path == "" {
		path = DefaultPath()
	}

	var loadErr error
	if path != "" {
		loadErr = loadFromFile(cfg, path)
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()

	loadedConfig = cfg
	return cfg, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	loadMu.Lock()
	defer loadMu.Unlock()
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// PluginValue returns the value of key in the [plugins.<name>] table.
func (c *Config) PluginValue(name, key string) (interface{}, bool) {
	table, ok := c.Plugins[name]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}
