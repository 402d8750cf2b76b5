package doc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bethropolis/folio/internal/types"
)

// Selection markers used by ParseMarked and MarkedHTML. "[" is the anchor and
// "]" the focus; a collapsed selection renders as "[]".
const (
	AnchorMarker = '['
	FocusMarker  = ']'
)

// ErrNoMarkers is returned by ParseMarked when the source holds no selection
// markers.
var ErrNoMarkers = errors.New("no selection markers")

// ParseMarked parses an HTML fragment carrying selection markers inside its
// text, removes them and returns the tree with the anchor and focus they
// denoted. A marker that is the only content of a text node denotes the
// element gap the text node occupied. When only one marker is present the
// selection is collapsed there.
func ParseMarked(src string) (*Tree, types.Position, types.Position, error) {
	var zero types.Position
	t, err := ParseHTML(src)
	if err != nil {
		return nil, zero, zero, err
	}

	var texts []types.NodeID
	t.Walk(t.root, func(n types.NodeID) bool {
		if t.IsText(n) && strings.ContainsAny(t.Text(n), "[]") {
			texts = append(texts, n)
		}
		return true
	})

	var anchor, focus *Live
	defer func() {
		if anchor != nil {
			anchor.Release()
		}
		if focus != nil {
			focus.Release()
		}
	}()

	for _, id := range texts {
		var kept []rune
		var aOff, fOff = -1, -1
		for _, r := range t.Text(id) {
			switch r {
			case AnchorMarker:
				if anchor != nil || aOff >= 0 {
					return nil, zero, zero, fmt.Errorf("parse marked: duplicate %q marker", AnchorMarker)
				}
				aOff = len(kept)
			case FocusMarker:
				if focus != nil || fOff >= 0 {
					return nil, zero, zero, fmt.Errorf("parse marked: duplicate %q marker", FocusMarker)
				}
				fOff = len(kept)
			default:
				kept = append(kept, r)
			}
		}
		t.SetText(id, string(kept))
		if aOff >= 0 {
			anchor = t.Track(types.Position{Node: id, Offset: aOff})
		}
		if fOff >= 0 {
			focus = t.Track(types.Position{Node: id, Offset: fOff})
		}
		if len(kept) == 0 {
			t.Remove(id)
		}
	}

	switch {
	case anchor == nil && focus == nil:
		return nil, zero, zero, ErrNoMarkers
	case anchor == nil:
		return t, focus.Pos(), focus.Pos(), nil
	case focus == nil:
		return t, anchor.Pos(), anchor.Pos(), nil
	}
	return t, anchor.Pos(), focus.Pos(), nil
}

type marker struct {
	pos types.Position
	s   string
}

// MarkedHTML renders the document with the given selection written in as
// markers. It is the inverse of ParseMarked up to text node boundaries.
func (t *Tree) MarkedHTML(anchor, focus types.Position) string {
	marks := []marker{{anchor, string(AnchorMarker)}, {focus, string(FocusMarker)}}
	if anchor == focus {
		marks = []marker{{anchor, string(AnchorMarker) + string(FocusMarker)}}
	}
	var sb strings.Builder
	for _, n := range t.exportChildren(t.root, marks) {
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

func (t *Tree) exportChildren(id types.NodeID, marks []marker) []*html.Node {
	var out []*html.Node
	children := t.nodes[id].children
	for i := 0; i <= len(children); i++ {
		for _, m := range marks {
			if m.pos.Node == id && m.pos.Offset == i {
				out = append(out, &html.Node{Type: html.TextNode, Data: m.s})
			}
		}
		if i < len(children) {
			out = append(out, t.exportMarked(children[i], marks))
		}
	}
	return out
}

func (t *Tree) exportMarked(id types.NodeID, marks []marker) *html.Node {
	nd := t.n(id)
	if nd.kind == KindText {
		var local []marker
		for _, m := range marks {
			if m.pos.Node == id {
				local = append(local, m)
			}
		}
		if len(local) == 0 {
			return &html.Node{Type: html.TextNode, Data: nd.text}
		}
		sort.SliceStable(local, func(i, j int) bool { return local[i].pos.Offset > local[j].pos.Offset })
		runes := []rune(nd.text)
		for _, m := range local {
			off := min(max(m.pos.Offset, 0), len(runes))
			runes = append(runes[:off], append([]rune(m.s), runes[off:]...)...)
		}
		return &html.Node{Type: html.TextNode, Data: string(runes)}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     nd.tag,
		DataAtom: atom.Lookup([]byte(nd.tag)),
		Attr:     append([]html.Attribute(nil), nd.attrs...),
	}
	for _, c := range t.exportChildren(id, marks) {
		out.AppendChild(c)
	}
	return out
}
