package edit

import (
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// moveNodes moves the children [from, to) of src to dest, in order. An
// emptied src is removed. It returns the gap before the first moved node
// (dest when nothing moved) and the last moved node.
func (e *Engine) moveNodes(dest types.Position, src types.NodeID, from, to int) (types.Position, types.NodeID) {
	t := e.tree
	nodes := t.Children(src)[from:to]
	last := types.NoNode
	if len(nodes) > 0 {
		guard := e.prepareUpdate(dest, dest)
		for i, c := range nodes {
			t.InsertChild(dest.Node, dest.Offset+i, c)
		}
		last = nodes[len(nodes)-1]
		e.restore(guard, text.LeftPos(t, nodes[0]))
	}
	if t.ChildCount(src) == 0 && !e.isUnremovable(src) && src != t.Root() {
		at := text.LeftPos(t, src)
		guard := e.prepareUpdate(at, text.RightPos(t, src))
		t.Remove(src)
		e.restore(guard, at)
	}
	for _, c := range nodes {
		if t.IsConnected(c) {
			return text.LeftPos(t, c), last
		}
	}
	return dest, last
}

// dropTrailingBreak removes the last child of b when it is a line break
// that content appended after it would turn visible.
func (e *Engine) dropTrailingBreak(b types.NodeID) {
	last := e.tree.LastChild(b)
	if last == types.NoNode || !e.isLineBreak(last) || e.isUnremovable(last) {
		return
	}
	if !e.isVisibleBreak(last) || e.isPlaceholder(last) {
		e.tree.Remove(last)
	}
}

// endCursor is the position at the visible end of n.
func (e *Engine) endCursor(n types.NodeID) types.Position {
	t := e.tree
	last := n
	for t.ChildCount(last) > 0 && !e.isAtomic(last) && !e.isDeletable(last) {
		last = t.LastChild(last)
	}
	switch {
	case last == n:
		return text.EndPos(t, n)
	case t.IsText(last):
		return text.EndPos(t, last)
	case e.isLineBreak(last):
		return text.LeftPos(t, last)
	}
	return text.RightPos(t, last)
}

// lastBlock descends from b into the innermost block that ends it: a list
// ends in its last item, a wrapper in its last paragraph.
func (e *Engine) lastBlock(b types.NodeID) types.NodeID {
	t := e.tree
	for {
		last := t.LastChild(b)
		for last != types.NoNode && t.IsText(last) && !e.isVisibleText(last) {
			last = t.PrevSibling(last)
		}
		if last == types.NoNode || !e.isBlock(last) || e.isAtomic(last) || e.isDeletable(last) {
			return b
		}
		b = last
	}
}

// startCursor is the position at the start of n.
func (e *Engine) startCursor(n types.NodeID) types.Position {
	t := e.tree
	first := n
	for t.ChildCount(first) > 0 && !e.isAtomic(first) && !e.isDeletable(first) {
		first = t.FirstChild(first)
	}
	switch {
	case first == n:
		return text.StartPos(n)
	case t.IsText(first):
		return text.StartPos(first)
	}
	return text.LeftPos(t, first)
}

// pruneEmpty removes n and its ancestors while they are empty, stopping at
// bound and never removing an ancestor of keep.
func (e *Engine) pruneEmpty(n, bound, keep types.NodeID) {
	t := e.tree
	for n != types.NoNode && n != bound && n != t.Root() && t.IsConnected(n) {
		if t.Contains(n, keep) || e.firstUnremovable(n) != types.NoNode || !e.isEmpty(n) {
			return
		}
		parent := t.Parent(n)
		t.Remove(n)
		n = parent
	}
}

func (e *Engine) closestUnbreakable(n types.NodeID) types.NodeID {
	return e.tree.Closest(n, e.isUnbreakable)
}

// mergeBlocks joins right into left and places the cursor at the seam.
func (e *Engine) mergeBlocks(left, right, bound types.NodeID) {
	t := e.tree
	e.tick(step{pos: text.StartPos(right)})

	if e.isEmpty(right) && e.firstUnremovable(right) == types.NoNode {
		parent := t.Parent(right)
		t.Remove(right)
		e.setCursor(e.endCursor(left))
		e.pruneEmpty(parent, bound, left)
		return
	}
	if e.isEmpty(left) && e.firstUnremovable(left) == types.NoNode {
		parent := t.Parent(left)
		t.Remove(left)
		e.setCursor(e.startCursor(right))
		e.pruneEmpty(parent, bound, right)
		return
	}
	if e.closestUnbreakable(left) != e.closestUnbreakable(right) {
		logger.DebugTagf("edit", "Edit: not merging <%s> and <%s> across an unbreakable boundary", t.Tag(left), t.Tag(right))
		return
	}

	lb, rb := e.isBlock(left), e.isBlock(right)
	switch {
	case lb && rb:
		e.dropTrailingBreak(left)
		e.setCursor(e.endCursor(left))
		for _, c := range t.Children(right) {
			t.AppendChild(left, c)
		}
		parent := t.Parent(right)
		if !e.isUnremovable(right) {
			t.Remove(right)
		}
		e.pruneEmpty(parent, bound, left)
	case lb:
		// An inline run after a block joins the block.
		e.dropTrailingBreak(left)
		e.setCursor(e.endCursor(left))
		for n := right; n != types.NoNode && !e.isBlock(n); {
			next := t.NextSibling(n)
			t.AppendChild(left, n)
			n = next
		}
	case rb:
		// A block after an inline run is unwrapped after it; the line break
		// the block implied is kept when more inline content follows.
		e.setCursor(text.RightPos(t, left))
		last := left
		for _, c := range t.Children(right) {
			t.InsertAfter(last, c)
			last = c
		}
		after := t.NextSibling(right)
		if !e.isUnremovable(right) {
			t.Remove(right)
		}
		if after != types.NoNode && !e.isBlock(after) && e.isVisible(after) {
			t.InsertAfter(last, e.caps.NewPlaceholder(t))
		}
	default:
		e.setCursor(text.RightPos(t, left))
	}
}
