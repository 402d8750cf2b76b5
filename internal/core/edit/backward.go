package edit

import (
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/core/traverse"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

// deleteBackward runs the backward chain at s.pos. The first rule that
// decides wins.
func (e *Engine) deleteBackward(s step) Result {
	e.tick(s)
	logger.DebugTagf("edit", "Edit: backward at %s (moved=%t, depth=%d)", s.pos, s.alreadyMoved, s.depth)
	return firstOf(
		(*Engine).backText,
		(*Engine).backLineBreak,
		(*Engine).backAtomicLeaf,
		(*Engine).backBeforeInline,
		(*Engine).backInsideInline,
		(*Engine).backEmptyPrevious,
		(*Engine).backDemote,
		(*Engine).backProtected,
		(*Engine).backMoveAndMerge,
	)(e, s)
}

// backText deletes the grapheme before the offset of a text position.
func (e *Engine) backText(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if !t.IsText(n) || off == 0 {
		return NotHandled
	}
	str := t.Text(n)
	from := off - text.GraphemeBefore(str, off)
	guard := e.prepareUpdate(types.Position{Node: n, Offset: from}, s.pos)
	rest, removed := text.Cut(str, from, off)

	var at types.Position
	if rest == "" {
		at = text.LeftPos(t, n)
		t.Remove(n)
	} else {
		t.SetText(n, rest)
		at = types.Position{Node: n, Offset: from}
	}
	e.restore(guard, at)
	e.setCursor(at)

	// An invisible character was removed: keep going so the key press has
	// a visible effect.
	if text.IsZWS(removed) {
		return e.deleteBackward(s.at(at))
	}
	if text.OnlyCollapsible(removed) {
		if st, _ := e.edgeState(at, types.Left); st != StateContent {
			return e.deleteBackward(s.at(at))
		}
	}
	return Handled
}

// backLineBreak: a break followed by a block is invisible, so the deletion
// applies to what precedes it.
func (e *Engine) backLineBreak(s step) Result {
	n := s.pos.Node
	if !e.isLineBreak(n) {
		return NotHandled
	}
	if st, _ := e.edgeState(text.RightPos(e.tree, n), types.Right); st == StateBlockInside {
		return e.deleteBackward(s.at(text.LeftPos(e.tree, n)))
	}
	return NotHandled
}

// backAtomicLeaf removes an atomic or non-editable leaf that is the first
// visible thing before the position.
func (e *Engine) backAtomicLeaf(s step) Result {
	t := e.tree
	if e.isAtomic(s.pos.Node) || e.isDeletable(s.pos.Node) {
		return NotHandled
	}
	leaf := e.inlinePath(s.pos, types.Left).Find(e.isVisible)
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

// backBeforeInline descends into the inline sibling before the position.
func (e *Engine) backBeforeInline(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if !t.IsElement(n) || off == 0 {
		return NotHandled
	}
	prev := t.Child(n, off-1)
	if e.isBlock(prev) && !e.isAtomic(prev) {
		return NotHandled
	}
	if e.isUnremovable(prev) && e.isEmpty(prev) {
		return e.reject(policy.Unremovable, prev)
	}
	return e.deleteBackward(s.at(text.EndPos(t, prev)))
}

// backInsideInline: at the start of an inline node or an atomic leaf. Empty
// ones are removed; the deletion continues in the parent unless the removed
// node was visible.
func (e *Engine) backInsideInline(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if off != 0 || n == t.Root() || (e.isBlock(n) && !e.isAtomic(n)) {
		return NotHandled
	}
	if e.isUnremovable(n) {
		return e.reject(policy.Unremovable, n)
	}
	at := text.LeftPos(t, n)
	if t.Len(n) == 0 || e.isZWSOnly(n) {
		visible := e.isVisible(n)
		guard := e.prepareUpdate(at, text.RightPos(t, n))
		t.Remove(n)
		e.restore(guard, at)
		if visible {
			e.setCursor(at)
			return Handled
		}
	}
	return e.deleteBackward(s.at(at))
}

// visiblePrevSibling skips whitespace-only text between blocks.
func (e *Engine) visiblePrevSibling(n types.NodeID) types.NodeID {
	prev := e.tree.PrevSibling(n)
	for prev != types.NoNode && e.tree.IsText(prev) && !e.isVisibleText(prev) {
		prev = e.tree.PrevSibling(prev)
	}
	return prev
}

// backEmptyPrevious removes an empty block in front of a paragraph.
func (e *Engine) backEmptyPrevious(s step) Result {
	t := e.tree
	n := s.pos.Node
	if s.pos.Offset != 0 || !t.IsElement(n) || !e.caps.IsParagraphLike(t, n) {
		return NotHandled
	}
	prev := e.visiblePrevSibling(n)
	if prev == types.NoNode || !e.isBlock(prev) || e.isAtomic(prev) {
		return NotHandled
	}
	if !e.isEmpty(prev) || e.isUnbreakable(prev) || e.firstUnremovable(prev) != types.NoNode {
		return NotHandled
	}
	t.Remove(prev)
	e.setCursor(text.StartPos(n))
	return Handled
}

// backDemote turns a heading-like first block into a paragraph.
func (e *Engine) backDemote(s step) Result {
	t := e.tree
	n := s.pos.Node
	if s.pos.Offset != 0 || !t.IsElement(n) || !e.caps.IsDemotable(t, n) {
		return NotHandled
	}
	if e.visiblePrevSibling(n) != types.NoNode {
		return NotHandled
	}
	t.SetTag(n, e.caps.ParagraphTag())
	return Handled
}

// backProtected stops at the start of the root and rejects deleting into a
// protected node.
func (e *Engine) backProtected(s step) Result {
	t := e.tree
	n := s.pos.Node
	if s.pos.Offset != 0 || !t.IsElement(n) {
		return NotHandled
	}
	if n == t.Root() {
		return Handled
	}
	if e.isUnremovable(n) {
		return e.reject(policy.Unremovable, n)
	}
	if e.isUnbreakable(n) && !e.isEmpty(n) {
		return e.reject(policy.Unbreakable, n)
	}
	return NotHandled
}

// atScopeStart reports that nothing precedes n inside its nearest
// unbreakable ancestor.
func (e *Engine) atScopeStart(n types.NodeID) bool {
	t := e.tree
	scope := t.Closest(t.Parent(n), e.isUnbreakable)
	if scope == types.NoNode {
		scope = t.Root()
	}
	path := traverse.New(t, types.Left, traverse.Options{
		LeafOnly:     true,
		ScopeRoot:    scope,
		StopTraverse: e.isOpaque,
	})(t.Parent(n), t.Index(n))
	return path.Find(func(c types.NodeID) bool {
		return e.isBlock(c) || e.isVisible(c)
	}) == types.NoNode
}

// backMoveAndMerge moves the inline run that follows the position across
// the block boundary on its left, then lets the chain continue from the
// seam.
func (e *Engine) backMoveAndMerge(s step) Result {
	t := e.tree
	n, off := s.pos.Node, s.pos.Offset
	if !t.IsElement(n) {
		return NotHandled
	}

	end := off
	for end < t.ChildCount(n) && !e.isBlock(t.Child(n, end)) {
		end++
	}

	var dest types.Position
	if off > 0 {
		prev := t.Child(n, off-1)
		target := prev
		if e.isBlock(prev) {
			target = e.lastBlock(prev)
		}
		for c := target; ; c = t.Parent(c) {
			if e.isUnbreakable(c) {
				return e.reject(policy.Unbreakable, c)
			}
			if c == prev {
				break
			}
		}
		if end > off {
			e.dropTrailingBreak(target)
		}
		dest = text.EndPos(t, target)
	} else {
		if e.isUnbreakable(n) {
			// Only an empty unbreakable block gets here.
			if u := e.firstUnremovable(n); u != types.NoNode {
				return e.reject(policy.Unremovable, u)
			}
			at := text.LeftPos(t, n)
			t.Remove(n)
			e.setCursor(e.settle(at, types.Left))
			return Handled
		}
		if e.atScopeStart(n) {
			return Handled
		}
		dest = text.LeftPos(t, n)
	}

	cursor, last := e.moveNodes(dest, n, off, end)
	e.setCursor(cursor)

	st, _ := e.edgeState(cursor, types.Left)
	switch {
	case st == StateBlockOutside:
		// Still at the start of an enclosing block: climb out of it.
		return e.deleteBackward(s.at(cursor))
	case st&GroupBlock != 0 && !s.alreadyMoved:
		return e.deleteBackward(s.moved(cursor))
	}
	if !s.alreadyMoved && last != types.NoNode {
		// The removed block boundary was a line break; keep it.
		if next := t.NextSibling(last); next != types.NoNode && !e.isBlock(next) && e.isVisible(next) {
			t.InsertAfter(last, e.caps.NewPlaceholder(t))
		}
	}
	return Handled
}
