// Package traverse walks the document tree leaf by leaf, forward or backward
// from a position. It is how the edit engine finds the next thing to delete
// or the next block to merge with.
package traverse

import (
	"iter"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/types"
)

// EndReason reports why a walk stopped.
type EndReason int

const (
	// EndNone: the walk ran out of nodes, reached the scope root or the
	// consumer stopped it.
	EndNone EndReason = iota
	// EndBlockOut: StopAt matched a node reached by moving up, i.e. the walk
	// was about to leave it.
	EndBlockOut
	// EndBlockHit: StopAt matched a node reached sideways or by descending.
	EndBlockHit
)

func (r EndReason) String() string {
	switch r {
	case EndBlockOut:
		return "block-out"
	case EndBlockHit:
		return "block-hit"
	}
	return "none"
}

// Options configure a generator.
type Options struct {
	// LeafOnly suppresses the ancestors the walk climbs through.
	LeafOnly bool
	// ScopeRoot is never yielded nor escaped. Defaults to the tree root.
	ScopeRoot types.NodeID
	// StopTraverse prevents descending into a node's children.
	StopTraverse func(types.NodeID) bool
	// StopAt ends the walk before yielding the matching node.
	StopAt func(types.NodeID) bool
}

// Generator starts a walk from a position.
type Generator func(node types.NodeID, offset int) *Path

// Path is one restartable walk.
type Path struct {
	t      *doc.Tree
	dir    types.Direction
	opts   Options
	node   types.NodeID
	offset int
	reason EndReason
	last   types.NodeID
}

// New returns a generator walking in dir.
func New(t *doc.Tree, dir types.Direction, opts Options) Generator {
	if opts.ScopeRoot == types.NoNode {
		opts.ScopeRoot = t.Root()
	}
	return func(node types.NodeID, offset int) *Path {
		return &Path{t: t, dir: dir, opts: opts, node: node, offset: offset}
	}
}

func (p *Path) stopTraverse(n types.NodeID) bool {
	return p.opts.StopTraverse != nil && p.opts.StopTraverse(n)
}

// deepest descends from n toward the walk direction.
func (p *Path) deepest(n types.NodeID) types.NodeID {
	if n == types.NoNode {
		return n
	}
	for p.t.ChildCount(n) > 0 && !p.stopTraverse(n) {
		if p.dir == types.Left {
			n = p.t.LastChild(n)
		} else {
			n = p.t.FirstChild(n)
		}
	}
	return n
}

func (p *Path) first() types.NodeID {
	if p.t.IsText(p.node) {
		return types.NoNode
	}
	if p.dir == types.Left {
		return p.deepest(p.t.Child(p.node, p.offset-1))
	}
	return p.deepest(p.t.Child(p.node, p.offset))
}

func (p *Path) sibling(n types.NodeID) types.NodeID {
	if p.dir == types.Left {
		return p.t.PrevSibling(n)
	}
	return p.t.NextSibling(n)
}

// Nodes yields the nodes strictly past the start position. Each call starts
// over from the start position.
func (p *Path) Nodes() iter.Seq[types.NodeID] {
	return func(yield func(types.NodeID) bool) {
		p.reason = EndNone
		p.last = types.NoNode
		movedUp := false
		cur := p.first()
		if cur == types.NoNode {
			movedUp = true
			cur = p.node
		}
		for cur != types.NoNode && cur != p.opts.ScopeRoot {
			if p.opts.StopAt != nil && p.opts.StopAt(cur) {
				if movedUp {
					p.reason = EndBlockOut
				} else {
					p.reason = EndBlockHit
				}
				p.last = cur
				return
			}
			if !(p.opts.LeafOnly && movedUp) {
				if !yield(cur) {
					return
				}
			}
			movedUp = false
			next := p.sibling(cur)
			if next != types.NoNode {
				cur = p.deepest(next)
				continue
			}
			movedUp = true
			cur = p.t.Parent(cur)
		}
	}
}

// Reason reports why the last iteration of Nodes ended.
func (p *Path) Reason() EndReason {
	return p.reason
}

// StoppedAt returns the node StopAt matched, or NoNode.
func (p *Path) StoppedAt() types.NodeID {
	return p.last
}

// First returns the first yielded node, or NoNode.
func (p *Path) First() types.NodeID {
	for n := range p.Nodes() {
		return n
	}
	return types.NoNode
}

// Find returns the first yielded node matching pred, or NoNode.
func (p *Path) Find(pred func(types.NodeID) bool) types.NodeID {
	for n := range p.Nodes() {
		if pred(n) {
			return n
		}
	}
	return types.NoNode
}

// Collect returns every yielded node.
func (p *Path) Collect() []types.NodeID {
	var out []types.NodeID
	for n := range p.Nodes() {
		out = append(out, n)
	}
	return out
}
