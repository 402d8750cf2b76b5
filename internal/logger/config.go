// Package logger provides configurable logging capabilities
package logger

import (
	"log/slog"
	"strings"
)

// Config holds all settings for the logger.
type Config struct {
	// LogLevel specifies the minimum level to log (debug, info, warn, error).
	LogLevel string `toml:"level"`

	// LogFilePath is the path to the output log file. "-" means stderr, empty
	// means the default file in the user cache directory.
	LogFilePath string `toml:"file"`

	// EnabledTags only logs tagged messages with these tags (if non-empty).
	// DisabledTags overrides it.
	EnabledTags  []string `toml:"enabled_tags"`
	DisabledTags []string `toml:"disabled_tags"`

	// Package name is the immediate directory name ("edit", "history").
	EnabledPackages  []string `toml:"enabled_packages"`
	DisabledPackages []string `toml:"disabled_packages"`

	// Filename is the base name ("backward.go").
	EnabledFiles  []string `toml:"enabled_files"`
	DisabledFiles []string `toml:"disabled_files"`

	level               slog.Level
	enabledTagsSet      map[string]struct{}
	disabledTagsSet     map[string]struct{}
	enabledPackagesSet  map[string]struct{}
	disabledPackagesSet map[string]struct{}
	enabledFilesSet     map[string]struct{}
	disabledFilesSet    map[string]struct{}
}

// NewConfig creates a new Config with default values
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// process parses string levels/lists into efficient internal formats.
func (c *Config) process() {
	c.level = ParseLevel(c.LogLevel)
	c.enabledTagsSet = sliceToSet(c.EnabledTags)
	c.disabledTagsSet = sliceToSet(c.DisabledTags)
	c.enabledPackagesSet = sliceToSet(c.EnabledPackages)
	c.disabledPackagesSet = sliceToSet(c.DisabledPackages)
	c.enabledFilesSet = sliceToSet(c.EnabledFiles)
	c.disabledFilesSet = sliceToSet(c.DisabledFiles)
	debugFilterf("processed config: level=%s disabledPackages=%v enabledPackages=%v",
		c.level, c.disabledPackagesSet, c.enabledPackagesSet)
}

// helper function to convert slice to set
func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil // nil map simplifies the checks in the handler
	}
	return set
}
