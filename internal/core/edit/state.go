package edit

import (
	"strings"

	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/core/traverse"
	"github.com/bethropolis/folio/internal/types"
)

// State classifies what lies next to a position in one direction.
type State uint8

const (
	StateContent State = 1 << iota
	StateSpace
	StateBreak
	// StateBlockOutside: the edge of the enclosing block.
	StateBlockOutside
	// StateBlockInside: a nested or sibling block.
	StateBlockInside
)

// GroupBlock is every state that ends a line.
const GroupBlock = StateBlockOutside | StateBlockInside | StateBreak

func (s State) String() string {
	switch s {
	case StateContent:
		return "content"
	case StateSpace:
		return "space"
	case StateBreak:
		return "break"
	case StateBlockOutside:
		return "block-outside"
	case StateBlockInside:
		return "block-inside"
	}
	return "unknown"
}

func (e *Engine) isBlock(n types.NodeID) bool {
	return e.tree.IsElement(n) && e.caps.IsBlock(e.tree, n)
}

func (e *Engine) isAtomic(n types.NodeID) bool {
	return e.tree.IsElement(n) && e.caps.IsInlineAtomic(e.tree, n)
}

func (e *Engine) isLineBreak(n types.NodeID) bool {
	return e.tree.IsElement(n) && e.caps.IsLineBreak(e.tree, n)
}

func (e *Engine) isEditable(n types.NodeID) bool {
	return e.caps.IsEditable(e.tree, n)
}

func (e *Engine) isUnremovable(n types.NodeID) bool {
	return e.tree.IsElement(n) && e.caps.IsUnremovable(e.tree, n)
}

func (e *Engine) isUnbreakable(n types.NodeID) bool {
	return e.tree.IsElement(n) && e.caps.IsUnbreakable(e.tree, n)
}

// isDeletable reports a leaf that is removed whole by a single keystroke:
// an atomic node other than a line break, or a non-editable subtree.
func (e *Engine) isDeletable(n types.NodeID) bool {
	if !e.tree.IsElement(n) || n == e.tree.Root() {
		return false
	}
	if e.isAtomic(n) && !e.isLineBreak(n) {
		return true
	}
	return !e.isEditable(n) && e.isEditable(e.tree.Parent(n))
}

// isOpaque nodes are never descended into while looking for leaves.
func (e *Engine) isOpaque(n types.NodeID) bool {
	return e.isBlock(n) || e.isAtomic(n) || e.isDeletable(n)
}

func (e *Engine) closestBlock(n types.NodeID) types.NodeID {
	return e.tree.Closest(n, e.isBlock)
}

// inlinePath walks the leaves of the current block, away from pos.
func (e *Engine) inlinePath(pos types.Position, dir types.Direction) *traverse.Path {
	return traverse.New(e.tree, dir, traverse.Options{
		LeafOnly:     true,
		StopTraverse: e.isOpaque,
		StopAt:       e.isBlock,
	})(pos.Node, pos.Offset)
}

// edgeState reports what is visible next to pos in dir, and the node that
// decided it (the text node holding the space for StateSpace).
func (e *Engine) edgeState(pos types.Position, dir types.Direction) (State, types.NodeID) {
	t := e.tree
	var sawSpace bool
	var spaceNode types.NodeID

	scan := func(v string, n types.NodeID) (State, types.NodeID, bool) {
		v = strings.ReplaceAll(v, text.ZWS, "")
		if v == "" {
			return 0, types.NoNode, false
		}
		if text.OnlyCollapsible(v) {
			if !sawSpace {
				sawSpace, spaceNode = true, n
			}
			return 0, types.NoNode, false
		}
		if sawSpace {
			return StateSpace, spaceNode, true
		}
		runes := []rune(v)
		edge := runes[0]
		if dir == types.Left {
			edge = runes[len(runes)-1]
		}
		if text.IsCollapsibleSpace(edge) {
			return StateSpace, n, true
		}
		return StateContent, n, true
	}

	if t.IsText(pos.Node) {
		s := t.Text(pos.Node)
		side := text.Slice(s, pos.Offset, text.RuneLen(s))
		if dir == types.Left {
			side = text.Slice(s, 0, pos.Offset)
		}
		if st, at, ok := scan(side, pos.Node); ok {
			return st, at
		}
		if dir == types.Left {
			pos = text.LeftPos(t, pos.Node)
		} else {
			pos = text.RightPos(t, pos.Node)
		}
	}

	path := e.inlinePath(pos, dir)
	for n := range path.Nodes() {
		if t.IsText(n) {
			if st, at, ok := scan(t.Text(n), n); ok {
				return st, at
			}
			continue
		}
		if e.isLineBreak(n) {
			return StateBreak, n
		}
		if e.isAtomic(n) || e.isDeletable(n) {
			if sawSpace {
				return StateSpace, spaceNode
			}
			return StateContent, n
		}
	}
	if path.Reason() == traverse.EndBlockHit {
		return StateBlockInside, path.StoppedAt()
	}
	return StateBlockOutside, path.StoppedAt()
}

// isVisibleText: text holding anything but whitespace and zero-width markers
// is visible; whitespace-only text only between two pieces of content.
func (e *Engine) isVisibleText(n types.NodeID) bool {
	v := strings.ReplaceAll(e.tree.Text(n), text.ZWS, "")
	if v == "" {
		return false
	}
	if !text.OnlyCollapsible(v) {
		return true
	}
	l, _ := e.edgeState(text.LeftPos(e.tree, n), types.Left)
	r, _ := e.edgeState(text.RightPos(e.tree, n), types.Right)
	return l == StateContent && r&(StateContent|StateSpace) != 0
}

// isVisibleBreak: a line break is invisible before a block, and at the end
// of its block once something visible precedes it.
func (e *Engine) isVisibleBreak(br types.NodeID) bool {
	r, _ := e.edgeState(text.RightPos(e.tree, br), types.Right)
	switch r {
	case StateBlockInside:
		return false
	case StateBlockOutside:
		l, _ := e.edgeState(text.LeftPos(e.tree, br), types.Left)
		return l&(StateBlockOutside|StateBlockInside) != 0
	}
	return true
}

// isPlaceholder: the visible line break that is the only thing keeping its
// block open.
func (e *Engine) isPlaceholder(br types.NodeID) bool {
	if !e.isLineBreak(br) {
		return false
	}
	r, _ := e.edgeState(text.RightPos(e.tree, br), types.Right)
	return r == StateBlockOutside && e.isVisibleBreak(br)
}

// isVisible reports whether a node shows anything on its own.
func (e *Engine) isVisible(n types.NodeID) bool {
	switch {
	case e.tree.IsText(n):
		return e.isVisibleText(n)
	case e.isLineBreak(n):
		return e.isVisibleBreak(n)
	case e.isAtomic(n), e.isDeletable(n):
		return true
	}
	return e.hasVisibleContent(n)
}

// hasVisibleContent reports whether anything visible other than a
// placeholder line break sits inside n.
func (e *Engine) hasVisibleContent(n types.NodeID) bool {
	found := false
	e.tree.Walk(n, func(c types.NodeID) bool {
		if found {
			return false
		}
		switch {
		case e.tree.IsText(c):
			found = e.isVisibleText(c)
		case e.isLineBreak(c):
			found = e.isVisibleBreak(c) && !e.isPlaceholder(c)
		case c != n && (e.isAtomic(c) || e.isDeletable(c)):
			found = true
			return false
		}
		return !found
	})
	return found
}

// isEmpty reports an element with no visible content.
func (e *Engine) isEmpty(n types.NodeID) bool {
	if e.tree.IsText(n) {
		return !e.isVisibleText(n)
	}
	if n != e.tree.Root() && (e.isAtomic(n) || e.isDeletable(n)) {
		return false
	}
	return !e.hasVisibleContent(n)
}

// isZWSOnly: an element whose whole text is zero-width markers, with no
// element children.
func (e *Engine) isZWSOnly(n types.NodeID) bool {
	if !e.tree.IsElement(n) {
		return text.IsZWS(e.tree.Text(n))
	}
	for _, c := range e.tree.Children(n) {
		if !e.tree.IsText(c) {
			return false
		}
	}
	return text.IsZWS(e.tree.TextContent(n))
}
