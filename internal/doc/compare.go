package doc

import "github.com/bethropolis/folio/internal/types"

// Compare orders two positions in document order: -1 if a is before b, 0 if
// they are the same gap and 1 if a is after b. Both must be connected.
func (t *Tree) Compare(a, b types.Position) int {
	if a.Node == b.Node {
		return sign(a.Offset - b.Offset)
	}
	if t.Contains(a.Node, b.Node) {
		i := t.Index(t.childToward(a.Node, b.Node))
		if i < a.Offset {
			return 1
		}
		return -1
	}
	if t.Contains(b.Node, a.Node) {
		return -t.Compare(b, a)
	}
	ca := t.CommonAncestor(a.Node, b.Node)
	if ca == types.NoNode {
		structuralf("compare", "nodes %d and %d are in disjoint trees", a.Node, b.Node)
	}
	return sign(t.Index(t.childToward(ca, a.Node)) - t.Index(t.childToward(ca, b.Node)))
}

// Before reports whether a strictly precedes b.
func (t *Tree) Before(a, b types.Position) bool {
	return t.Compare(a, b) < 0
}

// PrecedesNode reports whether n comes before m in document order, with
// ancestors ordered before their descendants.
func (t *Tree) PrecedesNode(n, m types.NodeID) bool {
	if n == m || t.Contains(m, n) {
		return false
	}
	if t.Contains(n, m) {
		return true
	}
	ca := t.CommonAncestor(n, m)
	return t.Index(t.childToward(ca, n)) < t.Index(t.childToward(ca, m))
}

// childToward returns the child of anc on the path to desc.
func (t *Tree) childToward(anc, desc types.NodeID) types.NodeID {
	cur := desc
	for {
		p := t.Parent(cur)
		if p == anc {
			return cur
		}
		if p == types.NoNode {
			structuralf("compare", "node %d is not below %d", desc, anc)
		}
		cur = p
	}
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}
