package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// DefaultLogFileName is used when Config.LogFilePath is empty.
const DefaultLogFileName = "folio.log"

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logLevel      = new(slog.LevelVar)
)

// Init installs a logger writing to output with the filters of cfg. It may be
// called again to reconfigure; a nil output discards everything.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	cfg.process()
	logLevel.Set(cfg.level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					src.File = filepath.Base(src.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	handler := newFilteringHandler(slog.NewTextHandler(output, &opts), &cfg)

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()

	Infof("Logger initialized (level %s)", cfg.level)
}

// Setup resolves the log destination of cfg, opens it and calls Init. The
// returned closer must be closed on exit; it is a no-op for stderr.
func Setup(cfg Config) (io.Closer, error) {
	path := cfg.LogFilePath
	if path == "-" {
		Init(cfg, os.Stderr)
		return io.NopCloser(nil), nil
	}
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving log directory: %w", err)
		}
		path = filepath.Join(dir, "folio", DefaultLogFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file '%s': %w", path, err)
	}
	Init(cfg, f)
	return f, nil
}

// logAtLevel creates and logs a record at the specified level, capturing the
// caller of the exported wrapper as the source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	l := Get()
	if !l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	// Skip runtime.Callers, logAtLevel and the wrapper (Debugf, Infof, ...).
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// DebugTagf logs a debug message carrying a tag the filters can select on.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
	os.Exit(1)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}
