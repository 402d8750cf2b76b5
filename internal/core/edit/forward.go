package edit

import (
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/core/traverse"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

// deleteForward runs the forward chain at s.pos.
func (e *Engine) deleteForward(s step) Result {
	e.tick(s)
	logger.DebugTagf("edit", "Edit: forward at %s (depth=%d)", s.pos, s.depth)
	return firstOf(
		(*Engine).fwdText,
		(*Engine).fwdEmptyInline,
		(*Engine).fwdAtomicLeaf,
		(*Engine).fwdNextLeaf,
		(*Engine).fwdOutOfBlock,
	)(e, s)
}

// forwardCandidate is something a forward deletion can act on.
func (e *Engine) forwardCandidate(n types.NodeID) bool {
	if e.tree.IsText(n) {
		return e.isVisibleText(n)
	}
	return e.isAtomic(n) || e.isDeletable(n)
}

// fwdText deletes the grapheme after the offset, or escalates from the end
// of the text node.
func (e *Engine) fwdText(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if !t.IsText(n) {
		return NotHandled
	}
	str := t.Text(n)
	if off >= text.RuneLen(str) {
		return e.deleteForward(s.at(text.RightPos(t, n)))
	}
	to := off + text.GraphemeAfter(str, off)
	guard := e.prepareUpdate(s.pos, types.Position{Node: n, Offset: to})
	rest, removed := text.Cut(str, off, to)

	at := s.pos
	if rest == "" {
		at = text.LeftPos(t, n)
		t.Remove(n)
	} else {
		t.SetText(n, rest)
	}
	e.restore(guard, at)
	e.setCursor(at)

	if text.IsZWS(removed) {
		return e.deleteForward(s.at(at))
	}
	if text.OnlyCollapsible(removed) {
		if st, _ := e.edgeState(at, types.Right); st != StateContent {
			return e.deleteForward(s.at(at))
		}
	}
	return Handled
}

// fwdEmptyInline drops empty or zero-width-only inline wrappers at or after
// the position.
func (e *Engine) fwdEmptyInline(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if !t.IsElement(n) {
		return NotHandled
	}
	wrapper := func(c types.NodeID) bool {
		return c != types.NoNode && c != t.Root() && t.IsElement(c) &&
			!e.isBlock(c) && !e.isAtomic(c) && !e.isDeletable(c) &&
			(t.Len(c) == 0 || e.isZWSOnly(c))
	}
	if wrapper(n) && off == t.Len(n) {
		if e.isUnremovable(n) {
			return e.reject(policy.Unremovable, n)
		}
		at := text.LeftPos(t, n)
		t.Remove(n)
		return e.deleteForward(s.at(at))
	}
	if next := t.Child(n, off); wrapper(next) {
		if e.isUnremovable(next) {
			return e.reject(policy.Unremovable, next)
		}
		t.Remove(next)
		return e.deleteForward(s.at(s.pos))
	}
	return NotHandled
}

// fwdAtomicLeaf removes an atomic or non-editable leaf that is the first
// candidate after the position.
func (e *Engine) fwdAtomicLeaf(s step) Result {
	t := e.tree
	if e.isAtomic(s.pos.Node) || e.isDeletable(s.pos.Node) {
		return NotHandled
	}
	leaf := e.inlinePath(s.pos, types.Right).Find(e.forwardCandidate)
	if leaf == types.NoNode || !e.isDeletable(leaf) {
		return NotHandled
	}
	if u := e.firstUnremovable(leaf); u != types.NoNode {
		return e.reject(policy.Unremovable, u)
	}
	at := text.LeftPos(t, leaf)
	guard := e.prepareUpdate(at, text.RightPos(t, leaf))
	t.Remove(leaf)
	e.restore(guard, at)
	return Handled
}

// nextInlineLeaf finds the next candidate in the current block, skipping a
// line break that only ends the block.
func (e *Engine) nextInlineLeaf(pos types.Position) types.NodeID {
	leaf := e.inlinePath(pos, types.Right).Find(e.forwardCandidate)
	if leaf != types.NoNode && e.isLineBreak(leaf) {
		if st, _ := e.edgeState(text.RightPos(e.tree, leaf), types.Right); st&(StateBlockInside|StateBlockOutside) != 0 {
			return types.NoNode
		}
	}
	return leaf
}

// fwdNextLeaf deletes the first unit of the next leaf in the block, as a
// backward deletion from just after that unit.
func (e *Engine) fwdNextLeaf(s step) Result {
	t := e.tree
	leaf := e.nextInlineLeaf(s.pos)
	if leaf == types.NoNode {
		return NotHandled
	}
	if t.IsText(leaf) {
		return e.deleteBackward(s.at(types.Position{Node: leaf, Offset: text.GraphemeAfter(t.Text(leaf), 0)}))
	}
	return e.deleteBackward(s.at(text.StartPos(leaf)))
}

// fwdOutOfBlock converts the deletion at the end of a block into a backward
// deletion at the start of the next leaf, merging the two lines.
func (e *Engine) fwdOutOfBlock(s step) Result {
	t := e.tree
	from := s.pos
	if leaf := e.inlinePath(s.pos, types.Right).Find(e.forwardCandidate); leaf != types.NoNode {
		from = text.RightPos(t, leaf)
	}
	out := traverse.New(t, types.Right, traverse.Options{
		LeafOnly: true,
		StopTraverse: func(n types.NodeID) bool {
			return e.isAtomic(n) || e.isDeletable(n)
		},
	})(from.Node, from.Offset).Find(e.forwardCandidate)
	if out == types.NoNode {
		return Handled
	}
	return e.deleteBackward(s.at(text.LeftPos(t, out)))
}
