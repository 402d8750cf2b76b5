package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// debugFilter traces every filtering decision to stderr. Toggled by the
// -debug-log flag.
var debugFilter bool

// SetDebugFilter enables tracing of the filtering handler.
func SetDebugFilter(on bool) {
	debugFilter = on
}

func debugFilterf(format string, args ...interface{}) {
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] "+format+"\n", args...)
	}
}

// filteringHandler wraps a base slog.Handler to add custom filtering.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{baseHandler: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

// allowed applies an enable/disable pair of sets to key. Disabled wins; a
// non-nil enabled set admits only its members.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	if _, found := disabled[key]; found {
		return false
	}
	if enabled != nil {
		_, found := enabled[key]
		return found
	}
	return true
}

// source resolves the package directory and file name of the record.
func source(r slog.Record) (pkg, file string, ok bool) {
	if r.PC == 0 {
		return "", "", false
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	if pkg, file, ok := source(r); ok {
		if !allowed(h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, strings.ToLower(pkg)) {
			debugFilterf("dropped %q: package %s", r.Message, pkg)
			return nil
		}
		if !allowed(h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, strings.ToLower(file)) {
			debugFilterf("dropped %q: file %s", r.Message, file)
			return nil
		}
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})
	if tag == "" {
		if h.cfg.enabledTagsSet != nil {
			debugFilterf("dropped %q: untagged while tags are enabled", r.Message)
			return nil
		}
	} else if !allowed(h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, tag) {
		debugFilterf("dropped %q: tag %s", r.Message, tag)
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
