// Package text holds position arithmetic and the splitting primitives the
// edit engine builds on.
package text

import (
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// Side selects which fragment of a split text node keeps the original NodeID.
type Side int

const (
	KeepLeft Side = iota
	KeepRight
)

// SplitText splits a text node at offset and returns the parent-relative
// offset of the gap between the two fragments. At either end of the node no
// split happens and the gap before or after the node is returned.
func SplitText(t *doc.Tree, node types.NodeID, offset int, keep Side) int {
	idx := t.Index(node)
	switch {
	case offset <= 0:
		return idx
	case offset >= t.Len(node):
		return idx + 1
	}
	if keep == KeepLeft {
		t.SplitText(node, offset)
	} else {
		t.SplitTextLeft(node, offset)
	}
	return idx + 1
}

// SplitElement splits el before child offset. Two shallow clones of el take
// the children on each side and replace el in its parent.
func SplitElement(t *doc.Tree, el types.NodeID, offset int) (left, right types.NodeID) {
	left, right = t.CloneShell(el), t.CloneShell(el)
	for i, c := range t.Children(el) {
		if i < offset {
			t.AppendChild(left, c)
		} else {
			t.AppendChild(right, c)
		}
	}
	t.ReplaceWith(el, left, right)
	return left, right
}

// SplitAroundUntil splits every ancestor of the sibling run nodes strictly
// below limit so that the run ends up alone in its chain of ancestors. It
// returns the child of limit that wraps exactly the run, or the run's first
// node when it already sits directly under limit.
func SplitAroundUntil(t *doc.Tree, nodes []types.NodeID, limit types.NodeID) types.NodeID {
	if len(nodes) == 0 {
		return types.NoNode
	}
	first, last := nodes[0], nodes[len(nodes)-1]
	for t.Parent(first) != limit {
		parent := t.Parent(first)
		if parent == types.NoNode {
			logger.Warnf("Text: split limit %d is not an ancestor of %d", limit, first)
			return types.NoNode
		}
		before := t.Index(first)
		after := t.Index(last) + 1
		if after < t.ChildCount(parent) {
			parent, _ = SplitElement(t, parent, after)
		}
		if before > 0 {
			_, parent = SplitElement(t, parent, before)
		}
		first, last = parent, parent
	}
	return first
}
