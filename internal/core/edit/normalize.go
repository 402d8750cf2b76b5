package edit

import (
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/types"
)

// normalize walks root deepest-first. Empty text goes away, empty blocks get
// a placeholder, a trailing break made redundant by content before it is
// dropped, and invisible inline wrappers are removed unless the cursor is in
// them, in which case they get a zero-width marker.
func (e *Engine) normalize(root types.NodeID) {
	t := e.tree
	for _, n := range t.PostOrder(root) {
		if !t.IsConnected(n) {
			continue
		}
		switch {
		case t.IsText(n):
			if t.Len(n) == 0 {
				t.Remove(n)
			}
		case e.isAtomic(n), e.isDeletable(n):
		case e.isBlock(n):
			e.dropRedundantBreak(n)
			e.fillEmpty(n)
		case n != t.Root():
			e.normalizeInline(n)
		}
	}
}

// fillEmpty gives an empty block something to hold the cursor. A block
// child or a break already does.
func (e *Engine) fillEmpty(b types.NodeID) {
	t := e.tree
	if !e.isEmpty(b) {
		return
	}
	for _, c := range t.Children(b) {
		if e.isLineBreak(c) || e.isBlock(c) {
			return
		}
	}
	if b == t.Root() && t.ChildCount(b) == 0 {
		p := t.NewElement(e.caps.ParagraphTag())
		t.AppendChild(p, e.caps.NewPlaceholder(t))
		t.AppendChild(b, p)
		return
	}
	t.AppendChild(b, e.caps.NewPlaceholder(t))
}

// dropRedundantBreak removes a trailing break that follows visible content.
func (e *Engine) dropRedundantBreak(b types.NodeID) {
	t := e.tree
	last := t.LastChild(b)
	if last == types.NoNode || !e.isLineBreak(last) || e.isUnremovable(last) {
		return
	}
	if st, _ := e.edgeState(text.LeftPos(t, last), types.Left); st&(StateContent|StateSpace) != 0 {
		t.Remove(last)
	}
}

func (e *Engine) normalizeInline(n types.NodeID) {
	t := e.tree
	if e.isVisible(n) {
		return
	}
	if e.cursor != nil && t.Contains(n, e.cursor.Pos().Node) {
		if !text.IsZWS(t.TextContent(n)) {
			t.AppendChild(n, t.NewText(text.ZWS))
		}
		return
	}
	if e.firstUnremovable(n) == types.NoNode {
		t.Remove(n)
	}
}

// normalizeAround normalizes the block region touched by an operation that
// started at from and ended at to.
func (e *Engine) normalizeAround(from, to types.Position) {
	t := e.tree
	a, b := from.Node, to.Node
	if !t.IsConnected(a) {
		a = b
	}
	if !t.IsConnected(b) {
		b = a
	}
	region := t.Root()
	if t.IsConnected(a) {
		if ca := t.CommonAncestor(a, b); ca != types.NoNode {
			region = e.closestBlock(ca)
			if region != t.Root() && t.Parent(region) != types.NoNode {
				region = t.Parent(region)
			}
		}
	}
	e.normalize(region)
}
