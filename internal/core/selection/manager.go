package selection

import (
	"errors"
	"fmt"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

var (
	// ErrOutsideEditable is returned when an endpoint is not inside the
	// editable surface.
	ErrOutsideEditable = errors.New("position is outside the editable surface")
	// ErrInvalidPosition is returned for a position that does not address a
	// gap of the connected tree.
	ErrInvalidPosition = errors.New("invalid position")
)

// Classifier is what the manager needs from the classification policy.
type Classifier interface {
	IsEditable(t *doc.Tree, n types.NodeID) bool
	IsInlineAtomic(t *doc.Tree, n types.NodeID) bool
}

// Manager owns the authoritative selection of one document. Its endpoints
// are live positions, so they stay valid while the tree is edited.
type Manager struct {
	tree   *doc.Tree
	caps   Classifier
	events *event.Manager

	anchor *doc.Live
	focus  *doc.Live
}

// NewManager creates a selection manager with a cursor at the start of the
// document. events may be nil.
func NewManager(tree *doc.Tree, caps Classifier, events *event.Manager) *Manager {
	start := types.Position{Node: tree.Root(), Offset: 0}
	return &Manager{
		tree:   tree,
		caps:   caps,
		events: events,
		anchor: tree.Track(start),
		focus:  tree.Track(start),
	}
}

// Close stops tracking the endpoints.
func (m *Manager) Close() {
	m.anchor.Release()
	m.focus.Release()
}

// GetSelection returns a snapshot of the current selection.
func (m *Manager) GetSelection() Selection {
	return newSelection(m.tree, m.anchor.Pos(), m.focus.Pos())
}

// SetSelection moves both endpoints. With normalize set, endpoints inside
// atomic nodes are moved out before the position before them. An endpoint
// that is invalid or outside the editable surface leaves the selection
// untouched and returns an error. Editability is checked on the endpoints
// as given, so normalizing never turns a non-editable endpoint into a
// valid one.
func (m *Manager) SetSelection(anchor, focus types.Position, normalize bool) (Selection, error) {
	for _, p := range []types.Position{anchor, focus} {
		if err := m.checkEditable(p); err != nil {
			return m.GetSelection(), err
		}
	}
	if normalize {
		anchor = m.normalize(anchor)
		focus = m.normalize(focus)
	}
	for _, p := range []types.Position{anchor, focus} {
		if err := m.check(p); err != nil {
			return m.GetSelection(), err
		}
	}

	prevA, prevF := m.anchor.Pos(), m.focus.Pos()
	m.anchor.Set(anchor)
	m.focus.Set(focus)
	if prevA != anchor || prevF != focus {
		logger.DebugTagf("selection", "Selection Manager: anchor %v focus %v", anchor, focus)
		if m.events != nil {
			m.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Anchor: anchor, Focus: focus})
		}
	}
	return m.GetSelection(), nil
}

// SetCursor collapses the selection at pos.
func (m *Manager) SetCursor(pos types.Position) (Selection, error) {
	return m.SetSelection(pos, pos, true)
}

// SetCursorStart collapses the selection at the start of n.
func (m *Manager) SetCursorStart(n types.NodeID) (Selection, error) {
	return m.SetCursor(types.Position{Node: n, Offset: 0})
}

// SetCursorEnd collapses the selection at the end of n.
func (m *Manager) SetCursorEnd(n types.NodeID) (Selection, error) {
	if !m.tree.Exists(n) {
		return m.GetSelection(), fmt.Errorf("cursor end of node %d: %w", n, ErrInvalidPosition)
	}
	return m.SetCursor(types.Position{Node: n, Offset: m.tree.Len(n)})
}

func (m *Manager) check(p types.Position) error {
	if !m.tree.Exists(p.Node) || !m.tree.Valid(p) {
		return fmt.Errorf("%v: %w", p, ErrInvalidPosition)
	}
	return m.checkEditable(p)
}

func (m *Manager) checkEditable(p types.Position) error {
	if m.caps != nil && m.tree.Exists(p.Node) && !m.caps.IsEditable(m.tree, p.Node) {
		return fmt.Errorf("%v: %w", p, ErrOutsideEditable)
	}
	return nil
}

// normalize lifts a position out of the outermost atomic ancestor-or-self of
// its node.
func (m *Manager) normalize(p types.Position) types.Position {
	if m.caps == nil || !m.tree.Exists(p.Node) {
		return p
	}
	outer := types.NoNode
	for cur := p.Node; cur != types.NoNode && cur != m.tree.Root(); cur = m.tree.Parent(cur) {
		if m.tree.IsElement(cur) && m.caps.IsInlineAtomic(m.tree, cur) {
			outer = cur
		}
	}
	if outer != types.NoNode && m.tree.Parent(outer) != types.NoNode {
		return types.Position{Node: m.tree.Parent(outer), Offset: m.tree.Index(outer)}
	}
	if m.tree.Valid(p) || !m.tree.IsConnected(p.Node) {
		return p
	}
	return types.Position{Node: p.Node, Offset: min(max(p.Offset, 0), m.tree.Len(p.Node))}
}
