package doc

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/bethropolis/folio/internal/types"
)

// MutationKind identifies a primitive tree change.
type MutationKind uint8

const (
	MutInsert MutationKind = iota + 1
	MutRemove
	MutText
	MutTag
	MutAttr
)

func (k MutationKind) String() string {
	switch k {
	case MutInsert:
		return "insert"
	case MutRemove:
		return "remove"
	case MutText:
		return "text"
	case MutTag:
		return "tag"
	case MutAttr:
		return "attr"
	}
	return "unknown"
}

// Mutation records one primitive change with enough data to undo it.
type Mutation struct {
	Kind   MutationKind
	Target types.NodeID // changed node; the moved child for insert/remove
	Parent types.NodeID // insert/remove only
	Index  int          // insert/remove only
	Key    string       // attribute key
	Old    string
	New    string
	HadOld bool // attribute existed before
	HasNew bool // attribute exists after
}

func (m Mutation) String() string {
	switch m.Kind {
	case MutInsert, MutRemove:
		return fmt.Sprintf("%s %d @ %d[%d]", m.Kind, m.Target, m.Parent, m.Index)
	case MutAttr:
		return fmt.Sprintf("attr %d %s=%q", m.Target, m.Key, m.New)
	}
	return fmt.Sprintf("%s %d %q -> %q", m.Kind, m.Target, m.Old, m.New)
}

// Invert returns the record that undoes m.
func (m Mutation) Invert() Mutation {
	inv := m
	switch m.Kind {
	case MutInsert:
		inv.Kind = MutRemove
	case MutRemove:
		inv.Kind = MutInsert
	default:
		inv.Old, inv.New = m.New, m.Old
		inv.HadOld, inv.HasNew = m.HasNew, m.HadOld
	}
	return inv
}

// Apply performs a recorded mutation. Inverted records are applied this way
// when a journal reverts.
func (t *Tree) Apply(m Mutation) {
	switch m.Kind {
	case MutInsert:
		t.InsertChild(m.Parent, m.Index, m.Target)
	case MutRemove:
		if t.Parent(m.Target) != m.Parent {
			structuralf("apply", "node %d is not a child of %d", m.Target, m.Parent)
		}
		t.Remove(m.Target)
	case MutText:
		t.SetText(m.Target, m.New)
	case MutTag:
		t.SetTag(m.Target, m.New)
	case MutAttr:
		if m.HasNew {
			t.SetAttr(m.Target, m.Key, m.New)
		} else {
			t.RemoveAttr(m.Target, m.Key)
		}
	}
}

// InsertChild inserts child into parent at index. A child that is attached
// elsewhere is moved: it is detached first and live positions inside it
// follow it. For such a move index counts the child's old slot.
func (t *Tree) InsertChild(parent types.NodeID, index int, child types.NodeID) {
	if t.n(parent).kind != KindElement {
		structuralf("insert", "parent %d is a text node", parent)
	}
	if t.Contains(child, parent) {
		structuralf("insert", "node %d would contain itself", child)
	}
	if child == t.root {
		structuralf("insert", "cannot move the root")
	}
	if t.nodes[child].parent != types.NoNode {
		old := t.nodes[child].parent
		oldIdx := t.Index(child)
		t.detach(child, false)
		if old == parent && oldIdx < index {
			index--
		}
	}
	p := &t.nodes[parent]
	if index < 0 || index > len(p.children) {
		structuralf("insert", "index %d out of range [0,%d] in %d", index, len(p.children), parent)
	}
	p.children = append(p.children, types.NoNode)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	t.nodes[child].parent = parent
	t.liveInserted(parent, index)
	t.emit(Mutation{Kind: MutInsert, Target: child, Parent: parent, Index: index})
}

// AppendChild inserts child as the last child of parent.
func (t *Tree) AppendChild(parent, child types.NodeID) {
	t.InsertChild(parent, t.ChildCount(parent), child)
}

// InsertBefore inserts n immediately before ref.
func (t *Tree) InsertBefore(ref, n types.NodeID) {
	p := t.Parent(ref)
	if p == types.NoNode {
		structuralf("insert", "reference %d is detached", ref)
	}
	if t.Parent(n) == p && t.Index(n) < t.Index(ref) {
		t.detach(n, false)
	}
	t.InsertChild(p, t.Index(ref), n)
}

// InsertAfter inserts n immediately after ref.
func (t *Tree) InsertAfter(ref, n types.NodeID) {
	p := t.Parent(ref)
	if p == types.NoNode {
		structuralf("insert", "reference %d is detached", ref)
	}
	if t.Parent(n) == p {
		t.detach(n, false)
	}
	t.InsertChild(p, t.Index(ref)+1, n)
}

// Remove detaches id from its parent. Detached nodes are left untouched.
// Live positions inside id move to the gap it leaves.
func (t *Tree) Remove(id types.NodeID) {
	t.detach(id, true)
}

// detach removes id from its parent. Moves pass evict=false so live
// positions inside the moved subtree travel with it.
func (t *Tree) detach(id types.NodeID, evict bool) {
	parent := t.n(id).parent
	if parent == types.NoNode {
		return
	}
	index := t.Index(id)
	t.liveRemoving(id, parent, index, evict)
	p := &t.nodes[parent]
	p.children = append(p.children[:index], p.children[index+1:]...)
	t.nodes[id].parent = types.NoNode
	t.emit(Mutation{Kind: MutRemove, Target: id, Parent: parent, Index: index})
}

// ReplaceWith puts the given nodes where old is and detaches old.
func (t *Tree) ReplaceWith(old types.NodeID, nodes ...types.NodeID) {
	parent := t.Parent(old)
	if parent == types.NoNode {
		structuralf("replace", "node %d is detached", old)
	}
	for _, n := range nodes {
		t.InsertBefore(old, n)
	}
	t.Remove(old)
}

// RemoveChildren detaches every child of id.
func (t *Tree) RemoveChildren(id types.NodeID) {
	for t.ChildCount(id) > 0 {
		t.Remove(t.LastChild(id))
	}
}

// SetText replaces the value of a text node.
func (t *Tree) SetText(id types.NodeID, s string) {
	nd := t.n(id)
	if nd.kind != KindText {
		structuralf("set-text", "node %d is an element", id)
	}
	if nd.text == s {
		return
	}
	old := nd.text
	nd.text = s
	t.liveClamp(id)
	t.emit(Mutation{Kind: MutText, Target: id, Old: old, New: s})
}

// SetTag renames an element, keeping its children and attributes.
func (t *Tree) SetTag(id types.NodeID, tag string) {
	nd := t.n(id)
	if nd.kind != KindElement {
		structuralf("set-tag", "node %d is a text node", id)
	}
	if nd.tag == tag {
		return
	}
	old := nd.tag
	nd.tag = tag
	t.emit(Mutation{Kind: MutTag, Target: id, Old: old, New: tag})
}

// SetAttr sets an attribute on an element.
func (t *Tree) SetAttr(id types.NodeID, key, val string) {
	nd := t.n(id)
	m := Mutation{Kind: MutAttr, Target: id, Key: key, New: val, HasNew: true}
	for i, a := range nd.attrs {
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			m.Old, m.HadOld = a.Val, true
			nd.attrs[i].Val = val
			t.emit(m)
			return
		}
	}
	nd.attrs = append(nd.attrs, html.Attribute{Key: key, Val: val})
	t.emit(m)
}

// RemoveAttr deletes an attribute if present.
func (t *Tree) RemoveAttr(id types.NodeID, key string) {
	nd := t.n(id)
	for i, a := range nd.attrs {
		if a.Namespace == "" && a.Key == key {
			nd.attrs = append(nd.attrs[:i], nd.attrs[i+1:]...)
			t.emit(Mutation{Kind: MutAttr, Target: id, Key: key, Old: a.Val, HadOld: true})
			return
		}
	}
}

// SplitText cuts a text node at a rune offset strictly inside it. The
// original node keeps the left part and a new node holding the right part is
// inserted after it; live positions past the cut follow the right part.
func (t *Tree) SplitText(id types.NodeID, offset int) types.NodeID {
	left, right := t.cutText(id, offset)
	rid := t.NewText(right)
	t.liveMoveText(id, func(off int) (types.NodeID, int, bool) {
		if off > offset {
			return rid, off - offset, true
		}
		return id, off, false
	})
	t.SetText(id, left)
	t.InsertAfter(id, rid)
	return rid
}

// SplitTextLeft is SplitText with the original node keeping the right part;
// the new left node is inserted before it.
func (t *Tree) SplitTextLeft(id types.NodeID, offset int) types.NodeID {
	left, right := t.cutText(id, offset)
	lid := t.NewText(left)
	t.liveMoveText(id, func(off int) (types.NodeID, int, bool) {
		if off < offset {
			return lid, off, true
		}
		return id, off - offset, true
	})
	t.SetText(id, right)
	t.InsertBefore(id, lid)
	return lid
}

func (t *Tree) cutText(id types.NodeID, offset int) (string, string) {
	if !t.IsText(id) {
		structuralf("split-text", "node %d is not a text node", id)
	}
	runes := []rune(t.Text(id))
	if offset <= 0 || offset >= len(runes) {
		structuralf("split-text", "offset %d not inside node %d of length %d", offset, id, len(runes))
	}
	return string(runes[:offset]), string(runes[offset:])
}
