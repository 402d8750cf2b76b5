// Package selection owns the cursor and range of a document and hands out
// immutable snapshots of it.
package selection

import (
	"fmt"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/types"
)

// Selection is a frozen snapshot. Request a new one after every mutation.
type Selection struct {
	Anchor types.Position
	Focus  types.Position

	Start          types.Position
	End            types.Position
	CommonAncestor types.NodeID
	// Direction is Left when the focus precedes the anchor.
	Direction types.Direction
}

func newSelection(t *doc.Tree, anchor, focus types.Position) Selection {
	s := Selection{Anchor: anchor, Focus: focus, Start: anchor, End: focus, Direction: types.Right}
	if !t.IsConnected(anchor.Node) || !t.IsConnected(focus.Node) {
		return s
	}
	if t.Compare(focus, anchor) < 0 {
		s.Start, s.End = focus, anchor
		s.Direction = types.Left
	}
	s.CommonAncestor = t.CommonAncestor(s.Start.Node, s.End.Node)
	return s
}

// IsCollapsed reports whether anchor and focus are the same gap.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Cursor returns the focus, where typing happens.
func (s Selection) Cursor() types.Position {
	return s.Focus
}

func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("cursor %v", s.Focus)
	}
	return fmt.Sprintf("%v..%v (%v)", s.Anchor, s.Focus, s.Direction)
}
