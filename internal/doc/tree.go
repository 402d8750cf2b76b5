// Package doc holds the document tree edited by the structural engine.
//
// The tree is an arena: nodes are addressed by types.NodeID handles and the
// parent/child relations are slices of handles, never pointers. A node that is
// detached keeps its slot for the whole session, so a journal can re-insert it
// and a stale handle can always be checked with Valid.
package doc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/bethropolis/folio/internal/types"
)

// Kind distinguishes text nodes from element nodes.
type Kind uint8

const (
	KindElement Kind = iota + 1
	KindText
)

// RootTag is the tag of the editable root element.
const RootTag = "body"

type node struct {
	kind     Kind
	tag      string
	attrs    []html.Attribute
	text     string
	parent   types.NodeID
	children []types.NodeID
}

// Tree is a mutable rooted document tree.
type Tree struct {
	nodes    []node // slot 0 is never used
	root     types.NodeID
	live     []*Live
	observer func(Mutation)
}

// StructureError is raised (as a panic value) when a caller asks the tree to
// do something structurally impossible, like inserting a node into its own
// subtree. It indicates a bug in the caller, not bad input.
type StructureError struct {
	Op  string
	Msg string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("doc: %s: %s", e.Op, e.Msg)
}

func structuralf(op, format string, args ...interface{}) {
	panic(&StructureError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// New creates an empty tree holding only the editable root.
func New() *Tree {
	t := &Tree{nodes: make([]node, 1, 64)}
	t.root = t.NewElement(RootTag)
	return t
}

// Root returns the editable root element.
func (t *Tree) Root() types.NodeID {
	return t.root
}

// SetObserver installs the function receiving every mutation record.
// Passing nil removes it.
func (t *Tree) SetObserver(fn func(Mutation)) {
	t.observer = fn
}

func (t *Tree) emit(m Mutation) {
	if t.observer != nil {
		t.observer(m)
	}
}

// Exists reports whether id names a node slot of this tree.
func (t *Tree) Exists(id types.NodeID) bool {
	return id > 0 && int(id) < len(t.nodes)
}

func (t *Tree) n(id types.NodeID) *node {
	if !t.Exists(id) {
		structuralf("lookup", "unknown node %d", id)
	}
	return &t.nodes[id]
}

// NewElement allocates a detached element.
func (t *Tree) NewElement(tag string, attrs ...html.Attribute) types.NodeID {
	t.nodes = append(t.nodes, node{
		kind:  KindElement,
		tag:   strings.ToLower(tag),
		attrs: append([]html.Attribute(nil), attrs...),
	})
	return types.NodeID(len(t.nodes) - 1)
}

// NewText allocates a detached text node.
func (t *Tree) NewText(s string) types.NodeID {
	t.nodes = append(t.nodes, node{kind: KindText, text: s})
	return types.NodeID(len(t.nodes) - 1)
}

// CloneShell allocates a detached copy of an element without its children.
func (t *Tree) CloneShell(id types.NodeID) types.NodeID {
	src := t.n(id)
	if src.kind == KindText {
		return t.NewText(src.text)
	}
	return t.NewElement(src.tag, src.attrs...)
}

// Kind returns the node kind.
func (t *Tree) Kind(id types.NodeID) Kind {
	return t.n(id).kind
}

// IsText reports whether id is a text node.
func (t *Tree) IsText(id types.NodeID) bool {
	return t.Exists(id) && t.nodes[id].kind == KindText
}

// IsElement reports whether id is an element.
func (t *Tree) IsElement(id types.NodeID) bool {
	return t.Exists(id) && t.nodes[id].kind == KindElement
}

// Tag returns the lower-case tag of an element, or "#text".
func (t *Tree) Tag(id types.NodeID) string {
	nd := t.n(id)
	if nd.kind == KindText {
		return "#text"
	}
	return nd.tag
}

// Attr returns the value of an attribute.
func (t *Tree) Attr(id types.NodeID, key string) (string, bool) {
	for _, a := range t.n(id).attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Attrs returns a copy of the element's attributes.
func (t *Tree) Attrs(id types.NodeID) []html.Attribute {
	return append([]html.Attribute(nil), t.n(id).attrs...)
}

// Text returns the value of a text node ("" for elements).
func (t *Tree) Text(id types.NodeID) string {
	return t.n(id).text
}

// Len is the maximum offset of a position inside id: the rune count of a text
// node or the child count of an element.
func (t *Tree) Len(id types.NodeID) int {
	nd := t.n(id)
	if nd.kind == KindText {
		return utf8.RuneCountInString(nd.text)
	}
	return len(nd.children)
}

// Parent returns the parent handle or NoNode.
func (t *Tree) Parent(id types.NodeID) types.NodeID {
	return t.n(id).parent
}

// Children returns a copy of the child list.
func (t *Tree) Children(id types.NodeID) []types.NodeID {
	return append([]types.NodeID(nil), t.n(id).children...)
}

// ChildCount returns the number of children of id.
func (t *Tree) ChildCount(id types.NodeID) int {
	return len(t.n(id).children)
}

// Child returns the i-th child or NoNode when out of range.
func (t *Tree) Child(id types.NodeID, i int) types.NodeID {
	ch := t.n(id).children
	if i < 0 || i >= len(ch) {
		return types.NoNode
	}
	return ch[i]
}

// FirstChild returns the first child or NoNode.
func (t *Tree) FirstChild(id types.NodeID) types.NodeID {
	return t.Child(id, 0)
}

// LastChild returns the last child or NoNode.
func (t *Tree) LastChild(id types.NodeID) types.NodeID {
	return t.Child(id, t.ChildCount(id)-1)
}

// Index returns the position of id in its parent's child list, or -1.
func (t *Tree) Index(id types.NodeID) int {
	p := t.n(id).parent
	if p == types.NoNode {
		return -1
	}
	for i, c := range t.nodes[p].children {
		if c == id {
			return i
		}
	}
	structuralf("index", "node %d missing from parent %d", id, p)
	return -1
}

// PrevSibling returns the previous sibling or NoNode.
func (t *Tree) PrevSibling(id types.NodeID) types.NodeID {
	p := t.Parent(id)
	if p == types.NoNode {
		return types.NoNode
	}
	return t.Child(p, t.Index(id)-1)
}

// NextSibling returns the next sibling or NoNode.
func (t *Tree) NextSibling(id types.NodeID) types.NodeID {
	p := t.Parent(id)
	if p == types.NoNode {
		return types.NoNode
	}
	return t.Child(p, t.Index(id)+1)
}

// Contains reports whether n is anc or one of its descendants.
func (t *Tree) Contains(anc, n types.NodeID) bool {
	for cur := n; cur != types.NoNode; cur = t.n(cur).parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// IsConnected reports whether id is attached (transitively) to the root.
func (t *Tree) IsConnected(id types.NodeID) bool {
	return t.Exists(id) && t.Contains(t.root, id)
}

// Valid reports whether pos still addresses a gap inside the connected tree.
func (t *Tree) Valid(pos types.Position) bool {
	if !t.IsConnected(pos.Node) {
		return false
	}
	return pos.Offset >= 0 && pos.Offset <= t.Len(pos.Node)
}

// Closest returns the nearest ancestor-or-self matching pred, or NoNode.
func (t *Tree) Closest(id types.NodeID, pred func(types.NodeID) bool) types.NodeID {
	for cur := id; cur != types.NoNode; cur = t.n(cur).parent {
		if pred(cur) {
			return cur
		}
	}
	return types.NoNode
}

// Ancestors returns the strict ancestors of id, nearest first.
func (t *Tree) Ancestors(id types.NodeID) []types.NodeID {
	var out []types.NodeID
	for cur := t.Parent(id); cur != types.NoNode; cur = t.n(cur).parent {
		out = append(out, cur)
	}
	return out
}

// CommonAncestor returns the deepest node containing both a and b (either may
// be the answer itself), or NoNode if they live in disjoint subtrees.
func (t *Tree) CommonAncestor(a, b types.NodeID) types.NodeID {
	seen := make(map[types.NodeID]struct{})
	for cur := a; cur != types.NoNode; cur = t.n(cur).parent {
		seen[cur] = struct{}{}
	}
	for cur := b; cur != types.NoNode; cur = t.n(cur).parent {
		if _, ok := seen[cur]; ok {
			return cur
		}
	}
	return types.NoNode
}

// TextContent concatenates every text descendant of id.
func (t *Tree) TextContent(id types.NodeID) string {
	if t.IsText(id) {
		return t.Text(id)
	}
	var sb strings.Builder
	t.Walk(id, func(n types.NodeID) bool {
		if t.IsText(n) {
			sb.WriteString(t.nodes[n].text)
		}
		return true
	})
	return sb.String()
}

// Walk visits id and its descendants in document order. Returning false from
// fn skips the subtree of that node.
func (t *Tree) Walk(id types.NodeID, fn func(types.NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// PostOrder returns id's subtree deepest-first (children before parents).
func (t *Tree) PostOrder(id types.NodeID) []types.NodeID {
	var out []types.NodeID
	var visit func(types.NodeID)
	visit = func(n types.NodeID) {
		for _, c := range t.n(n).children {
			visit(c)
		}
		out = append(out, n)
	}
	visit(id)
	return out
}
