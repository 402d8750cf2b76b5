package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/folio/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	MaxIterations   *int
	MaxSteps        *int
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	DebugLog        *bool
	SystemClipboard *bool

	// Script is the document for scripted mode (-e).
	Script      *string
	Interactive *bool
}

// DefineFlags sets up the flags on fs (flag.CommandLine when nil).
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.MaxIterations = fs.Int("max-iterations", 0, "Rule recursion cap of one edit - Overrides config file")
	f.MaxSteps = fs.Int("max-steps", -1, "Undo steps kept (0 = default) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal clipboard")
	f.Script = fs.String("e", "", "Marked HTML document to run the key arguments against, then print")
	f.Interactive = fs.Bool("i", false, "Open the interactive playground")
}

// ParseFlags defines and parses the flags of fs (flag.CommandLine when nil)
// from args. It returns the remaining non-flag arguments.
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "max-iterations":
			if *f.MaxIterations > 0 {
				cfg.Editor.MaxIterations = *f.MaxIterations
			}
		case "max-steps":
			if *f.MaxSteps >= 0 {
				cfg.Editor.MaxSteps = *f.MaxSteps
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
