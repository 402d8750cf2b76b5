package doc

import "github.com/bethropolis/folio/internal/types"

// Live is a position that the tree keeps valid across mutations. Inserting
// before it shifts it right, removing a node that contains it moves it to the
// gap the node left behind, and splitting a text node moves it into the right
// half when it sat past the cut.
type Live struct {
	pos  types.Position
	tree *Tree
}

// Track registers pos as a live position. Call Release once it is no longer
// needed.
func (t *Tree) Track(pos types.Position) *Live {
	l := &Live{pos: pos, tree: t}
	t.live = append(t.live, l)
	return l
}

// Pos returns the current position.
func (l *Live) Pos() types.Position {
	return l.pos
}

// Set moves the live position.
func (l *Live) Set(pos types.Position) {
	l.pos = pos
}

// Release stops tracking. Releasing twice is harmless.
func (l *Live) Release() {
	if l.tree == nil {
		return
	}
	lv := l.tree.live
	for i, x := range lv {
		if x == l {
			l.tree.live = append(lv[:i], lv[i+1:]...)
			break
		}
	}
	l.tree = nil
}

func (t *Tree) liveInserted(parent types.NodeID, index int) {
	for _, l := range t.live {
		if l.pos.Node == parent && l.pos.Offset > index {
			l.pos.Offset++
		}
	}
}

func (t *Tree) liveRemoving(id, parent types.NodeID, index int, evict bool) {
	for _, l := range t.live {
		switch {
		case t.Contains(id, l.pos.Node):
			if !evict {
				continue
			}
			l.pos = types.Position{Node: parent, Offset: index}
		case l.pos.Node == parent && l.pos.Offset > index:
			l.pos.Offset--
		}
	}
}

func (t *Tree) liveClamp(id types.NodeID) {
	n := t.Len(id)
	for _, l := range t.live {
		if l.pos.Node == id && l.pos.Offset > n {
			l.pos.Offset = n
		}
	}
}

func (t *Tree) liveMoveText(id types.NodeID, move func(off int) (types.NodeID, int, bool)) {
	for _, l := range t.live {
		if l.pos.Node != id {
			continue
		}
		if n, off, ok := move(l.pos.Offset); ok {
			l.pos = types.Position{Node: n, Offset: off}
		}
	}
}
