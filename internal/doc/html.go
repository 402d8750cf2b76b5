package doc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bethropolis/folio/internal/types"
)

// ErrNotAttached is returned when rendering a node that is not part of the
// document.
var ErrNotAttached = errors.New("node is not attached to the document")

// ParseHTML builds a tree from an HTML fragment. The fragment is parsed in a
// <body> context, so the top-level nodes become children of the root.
// Comments and doctypes are dropped.
func ParseHTML(src string) (*Tree, error) {
	return Parse(strings.NewReader(src))
}

// Parse is ParseHTML reading from r.
func Parse(r io.Reader) (*Tree, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: RootTag, DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing html fragment: %w", err)
	}
	t := New()
	for _, n := range nodes {
		t.importNode(t.root, n)
	}
	return t, nil
}

func (t *Tree) importNode(parent types.NodeID, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		t.AppendChild(parent, t.NewText(n.Data))
	case html.ElementNode:
		id := t.NewElement(n.Data, n.Attr...)
		t.AppendChild(parent, id)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.importNode(id, c)
		}
	}
}

// HTML renders the children of the root.
func (t *Tree) HTML() string {
	var sb strings.Builder
	for _, c := range t.Children(t.root) {
		// strings.Builder never fails
		_ = html.Render(&sb, t.export(c))
	}
	return sb.String()
}

// RenderNode writes the outer HTML of a connected node to w.
func (t *Tree) RenderNode(w io.Writer, id types.NodeID) error {
	if !t.IsConnected(id) {
		return fmt.Errorf("render %d: %w", id, ErrNotAttached)
	}
	return html.Render(w, t.export(id))
}

func (t *Tree) export(id types.NodeID) *html.Node {
	nd := t.n(id)
	if nd.kind == KindText {
		return &html.Node{Type: html.TextNode, Data: nd.text}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     nd.tag,
		DataAtom: atom.Lookup([]byte(nd.tag)),
		Attr:     append([]html.Attribute(nil), nd.attrs...),
	}
	for _, c := range nd.children {
		out.AppendChild(t.export(c))
	}
	return out
}
