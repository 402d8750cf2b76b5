// Package clipboard holds text cut or copied out of the document.
package clipboard

import (
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// Classifier is what extraction needs from the classification policy.
type Classifier interface {
	IsBlock(t *doc.Tree, n types.NodeID) bool
	IsLineBreak(t *doc.Tree, n types.NodeID) bool
}

// Manager keeps an internal register and, when enabled, mirrors it to the
// system clipboard.
type Manager struct {
	mu       sync.Mutex
	register string
	system   bool
}

// NewManager creates a clipboard manager.
func NewManager(useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("ClipboardManager: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{system: useSystem}
}

// Set stores s. A failing system clipboard is logged and the internal
// register still holds s.
func (m *Manager) Set(s string) {
	m.mu.Lock()
	m.register = s
	m.mu.Unlock()
	if m.system {
		if err := clipboard.WriteAll(s); err != nil {
			logger.Warnf("ClipboardManager: system clipboard write failed: %v", err)
		}
	}
	logger.Debugf("ClipboardManager: stored %d bytes", len(s))
}

// Get returns the clipboard content, preferring the system clipboard.
func (m *Manager) Get() string {
	if m.system {
		s, err := clipboard.ReadAll()
		if err == nil {
			return s
		}
		logger.Warnf("ClipboardManager: system clipboard read failed: %v", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register
}

// Extract returns the text between start and end. Block boundaries and
// line breaks become newlines.
func Extract(t *doc.Tree, caps Classifier, start, end types.Position) string {
	var sb strings.Builder
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	root := t.Root()
	t.Walk(root, func(n types.NodeID) bool {
		if n != root {
			before := types.Position{Node: t.Parent(n), Offset: t.Index(n)}
			after := types.Position{Node: before.Node, Offset: before.Offset + 1}
			if t.Compare(after, start) <= 0 || t.Compare(before, end) >= 0 {
				return false
			}
		}
		switch {
		case t.IsText(n):
			s := t.Text(n)
			from, to := 0, text.RuneLen(s)
			if start.Node == n {
				from = start.Offset
			}
			if end.Node == n {
				to = end.Offset
			}
			sb.WriteString(strings.ReplaceAll(text.Slice(s, from, to), text.ZWS, ""))
		case caps.IsLineBreak(t, n):
			sb.WriteByte('\n')
		case n != root && caps.IsBlock(t, n):
			newline()
		}
		return true
	})
	return sb.String()
}
