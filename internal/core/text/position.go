package text

import (
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/types"
)

// LeftPos is the gap just before n in its parent.
func LeftPos(t *doc.Tree, n types.NodeID) types.Position {
	return types.Position{Node: t.Parent(n), Offset: t.Index(n)}
}

// RightPos is the gap just after n in its parent.
func RightPos(t *doc.Tree, n types.NodeID) types.Position {
	return types.Position{Node: t.Parent(n), Offset: t.Index(n) + 1}
}

// StartPos is the first position inside n.
func StartPos(n types.NodeID) types.Position {
	return types.Position{Node: n, Offset: 0}
}

// EndPos is the last position inside n.
func EndPos(t *doc.Tree, n types.NodeID) types.Position {
	return types.Position{Node: n, Offset: t.Len(n)}
}

// Size is the number of positions past the start of n.
func Size(t *doc.Tree, n types.NodeID) int {
	return t.Len(n)
}

// FirstLeaf descends through first children.
func FirstLeaf(t *doc.Tree, n types.NodeID) types.NodeID {
	for t.ChildCount(n) > 0 {
		n = t.FirstChild(n)
	}
	return n
}

// LastLeaf descends through last children.
func LastLeaf(t *doc.Tree, n types.NodeID) types.NodeID {
	for t.ChildCount(n) > 0 {
		n = t.LastChild(n)
	}
	return n
}

// NodeAt returns the child a position points into in the given direction:
// the child after the gap for Right and before it for Left. Text positions
// and out-of-range gaps yield NoNode.
func NodeAt(t *doc.Tree, pos types.Position, dir types.Direction) types.NodeID {
	if t.IsText(pos.Node) {
		return types.NoNode
	}
	if dir == types.Left {
		return t.Child(pos.Node, pos.Offset-1)
	}
	return t.Child(pos.Node, pos.Offset)
}
