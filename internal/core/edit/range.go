package edit

import (
	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/core/traverse"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// outerNonEditable returns the outermost non-editable ancestor-or-self of n
// that sits directly in editable content, or NoNode.
func (e *Engine) outerNonEditable(n types.NodeID) types.NodeID {
	t := e.tree
	found := types.NoNode
	for cur := n; cur != types.NoNode && cur != t.Root(); cur = t.Parent(cur) {
		if t.IsElement(cur) && !e.isEditable(cur) && e.isEditable(t.Parent(cur)) {
			found = cur
		}
	}
	return found
}

// previousLeafEnd is the end of the closest editable leaf before pos.
func (e *Engine) previousLeafEnd(pos types.Position) (types.Position, bool) {
	t := e.tree
	leaf := traverse.New(t, types.Left, traverse.Options{
		LeafOnly: true,
		StopTraverse: func(n types.NodeID) bool {
			return e.isAtomic(n) || e.isDeletable(n)
		},
	})(pos.Node, pos.Offset).Find(func(n types.NodeID) bool {
		return e.isEditable(n) && (t.IsText(n) || e.isAtomic(n))
	})
	switch {
	case leaf == types.NoNode:
		return pos, false
	case t.IsText(leaf):
		return text.EndPos(t, leaf), true
	}
	return text.RightPos(t, leaf), true
}

// adjustRange widens the edges over non-editable nodes and retracts an end
// that a whole-line selection left at the start of the next block.
func (e *Engine) adjustRange(start, end types.Position) (types.Position, types.Position) {
	t := e.tree
	if n := e.outerNonEditable(start.Node); n != types.NoNode {
		start = text.LeftPos(t, n)
	}
	if n := e.outerNonEditable(end.Node); n != types.NoNode {
		end = text.RightPos(t, n)
	}
	if b := e.closestBlock(end.Node); b != types.NoNode && !t.Contains(b, start.Node) {
		if st, _ := e.edgeState(end, types.Left); st == StateBlockOutside {
			if prev, ok := e.previousLeafEnd(end); ok {
				end = prev
			}
		}
	}
	if br := text.NodeAt(t, end, types.Left); br != types.NoNode && e.isLineBreak(br) && !e.isVisibleBreak(br) {
		end = text.LeftPos(t, br)
	}
	return start, end
}

// firstUnremovable returns the first unremovable element in the subtree of
// n, n included, or NoNode.
func (e *Engine) firstUnremovable(n types.NodeID) types.NodeID {
	found := types.NoNode
	e.tree.Walk(n, func(c types.NodeID) bool {
		if found != types.NoNode {
			return false
		}
		if e.isUnremovable(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// removeOrClear detaches n, or empties it down to the unremovable nodes it
// holds, which stay in place. It reports whether n left the tree.
func (e *Engine) removeOrClear(n types.NodeID) bool {
	t := e.tree
	if e.firstUnremovable(n) == types.NoNode {
		t.Remove(n)
		return true
	}
	for i := t.ChildCount(n) - 1; i >= 0; i-- {
		e.removeOrClear(t.Child(n, i))
	}
	if e.isUnremovable(n) && e.isBlock(n) && t.ChildCount(n) == 0 {
		t.AppendChild(n, e.caps.NewPlaceholder(t))
	}
	return false
}

// deleteRange removes everything between the selection edges and merges
// what remains on both sides.
func (e *Engine) deleteRange(sel selection.Selection) Result {
	t := e.tree
	start, end := e.adjustRange(sel.Start, sel.End)
	if t.Compare(start, end) >= 0 {
		e.setCursor(start)
		return Handled
	}

	startL, endL := t.Track(start), t.Track(end)
	defer startL.Release()
	defer endL.Release()

	// Split the end first: keeping the left fragment leaves a start in the
	// same text node where it was.
	if t.IsText(end.Node) {
		parent := t.Parent(end.Node)
		endL.Set(types.Position{Node: parent, Offset: text.SplitText(t, end.Node, end.Offset, text.KeepLeft)})
	}
	if start = startL.Pos(); t.IsText(start.Node) {
		parent := t.Parent(start.Node)
		startL.Set(types.Position{Node: parent, Offset: text.SplitText(t, start.Node, start.Offset, text.KeepRight)})
	}

	guard := e.prepareUpdate(startL.Pos(), endL.Pos())
	sc, so := startL.Pos().Node, startL.Pos().Offset
	ec, eo := endL.Pos().Node, endL.Pos().Offset
	ca := t.CommonAncestor(sc, ec)
	if ca == types.NoNode {
		invariantf(e.op, "range edges %s and %s share no ancestor", startL.Pos(), endL.Pos())
	}
	logger.DebugTagf("edit", "Edit: range %s..%s under <%s>", startL.Pos(), endL.Pos(), t.Tag(ca))

	leftChild, leftIdx := types.NoNode, so
	for cur := sc; cur != ca; cur = t.Parent(cur) {
		e.tick(step{pos: types.Position{Node: cur, Offset: leftIdx}})
		for i := t.ChildCount(cur) - 1; i >= leftIdx; i-- {
			e.removeOrClear(t.Child(cur, i))
		}
		leftChild, leftIdx = cur, t.Index(cur)+1
	}
	rightChild, rightIdx := types.NoNode, eo
	for cur := ec; cur != ca; cur = t.Parent(cur) {
		e.tick(step{pos: types.Position{Node: cur, Offset: rightIdx}})
		for i := rightIdx - 1; i >= 0; i-- {
			e.removeOrClear(t.Child(cur, i))
		}
		rightChild, rightIdx = cur, t.Index(cur)
	}
	adjacent := true
	for i := rightIdx - 1; i >= leftIdx; i-- {
		if !e.removeOrClear(t.Child(ca, i)) {
			adjacent = false
		}
	}

	switch {
	case sel.Direction == types.Right && sc == ca:
		e.setCursor(startL.Pos())
	case sel.Direction == types.Right:
		e.setCursor(text.EndPos(t, sc))
	case ec == ca:
		e.setCursor(endL.Pos())
	default:
		e.setCursor(text.StartPos(ec))
	}

	if adjacent && leftChild != types.NoNode && rightChild != types.NoNode {
		e.mergeBlocks(e.fragment(sc, leftChild), e.fragment(ec, rightChild), ca)
	}
	e.normalize(ca)
	e.setCursor(e.settle(e.cursor.Pos(), types.Right))
	e.restore(guard, e.cursor.Pos())
	return Handled
}

// settle moves a position that sits between blocks, with no inline content
// next to it, into the neighbouring block on side prefer, or the other one
// when that side has none.
func (e *Engine) settle(pos types.Position, prefer types.Direction) types.Position {
	t := e.tree
	if !t.IsConnected(pos.Node) || !e.isBlock(pos.Node) || e.isAtomic(pos.Node) {
		return pos
	}
	neighbour := func(from, step int) (types.NodeID, bool) {
		for i := from; i >= 0 && i < t.ChildCount(pos.Node); i += step {
			c := t.Child(pos.Node, i)
			if t.IsText(c) && !e.isVisibleText(c) {
				continue
			}
			return c, e.isBlock(c) && !e.isAtomic(c)
		}
		return types.NoNode, true
	}
	left, lok := neighbour(pos.Offset-1, -1)
	right, rok := neighbour(pos.Offset, 1)
	if !lok || !rok {
		return pos
	}
	switch {
	case right != types.NoNode && (prefer == types.Right || left == types.NoNode):
		return e.startCursor(right)
	case left != types.NoNode:
		return e.endCursor(e.lastBlock(left))
	}
	return pos
}

// fragment is the node that represents one side of a range in a merge: the
// closest block of the edge inside the side's top node, or that node.
func (e *Engine) fragment(edge, top types.NodeID) types.NodeID {
	if b := e.closestBlock(edge); b != types.NoNode && e.tree.Contains(top, b) {
		return b
	}
	return top
}
