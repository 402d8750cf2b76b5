package edit

import (
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/types"
)

// spaceGuard remembers what followed the start and preceded the end of a
// region about to be removed.
type spaceGuard struct {
	afterStart, beforeEnd State
}

// prepareUpdate captures the surroundings of [start, end] before a
// mutation. Pass the result to restore once the region has collapsed.
func (e *Engine) prepareUpdate(start, end types.Position) spaceGuard {
	r, _ := e.edgeState(start, types.Right)
	l, _ := e.edgeState(end, types.Left)
	return spaceGuard{afterStart: r, beforeEnd: l}
}

// restore keeps a space visible when the mutation left it at a line edge
// it did not sit at before, by turning it into a non-breaking space.
func (e *Engine) restore(g spaceGuard, at types.Position) {
	if !e.tree.Valid(at) {
		return
	}
	l, ln := e.edgeState(at, types.Left)
	r, rn := e.edgeState(at, types.Right)
	if l == StateSpace && r&GroupBlock != 0 && g.afterStart&GroupBlock == 0 {
		e.hardenSpace(ln, types.Left)
	}
	if r == StateSpace && l&GroupBlock != 0 && g.beforeEnd&GroupBlock == 0 {
		e.hardenSpace(rn, types.Right)
	}
}

// hardenSpace replaces the collapsible space of n closest to the edit (its
// last one for Left, its first one for Right) with U+00A0.
func (e *Engine) hardenSpace(n types.NodeID, dir types.Direction) {
	if !e.tree.IsText(n) {
		return
	}
	runes := []rune(e.tree.Text(n))
	i, step := 0, 1
	if dir == types.Left {
		i, step = len(runes)-1, -1
	}
	for ; i >= 0 && i < len(runes); i += step {
		if string(runes[i]) == text.ZWS {
			continue
		}
		if !text.IsCollapsibleSpace(runes[i]) {
			return
		}
		runes[i] = []rune(text.NBSP)[0]
		e.tree.SetText(n, string(runes))
		return
	}
}
