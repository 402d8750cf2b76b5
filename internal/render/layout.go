// Package render lays a document tree out as styled terminal cells. Blocks
// start their own indented line with a tag label; inline formatting maps to
// text attributes; atomic inlines show as a bracketed tag.
package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/theme"
	"github.com/bethropolis/folio/internal/types"
)

// LineBreakGlyph marks a line break element.
const LineBreakGlyph = '\u21b5'

// indentWidth is the indentation per block nesting level.
const indentWidth = 2

// Classifier is the part of the capability policy the layout needs.
type Classifier interface {
	IsBlock(t *doc.Tree, n types.NodeID) bool
	IsInlineAtomic(t *doc.Tree, n types.NodeID) bool
	IsLineBreak(t *doc.Tree, n types.NodeID) bool
	IsEditable(t *doc.Tree, n types.NodeID) bool
}

// Cell is one screen cell. Wide clusters occupy Width columns.
type Cell struct {
	Rune      rune
	Combining []rune
	Width     int
	Style     tcell.Style
}

// Point is a screen coordinate inside the layout.
type Point struct {
	X, Y int
}

// Layout is a laid out document.
type Layout struct {
	Lines [][]Cell
	// Cursor is where the selection focus lands; HasCursor is false when the
	// focus is not a position the layout passed.
	Cursor    Point
	HasCursor bool
}

// Text returns the layout as plain lines, without trailing spaces.
func (l Layout) Text() []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		var rs []rune
		for _, c := range line {
			rs = append(rs, c.Rune)
			rs = append(rs, c.Combining...)
		}
		for len(rs) > 0 && rs[len(rs)-1] == ' ' {
			rs = rs[:len(rs)-1]
		}
		out[i] = string(rs)
	}
	return out
}

type layouter struct {
	t     *doc.Tree
	caps  Classifier
	sel   selection.Selection
	th    *theme.Theme
	width int

	lines  [][]Cell
	line   []Cell
	x      int
	indent int
	// filled is set once the current line holds more than indentation.
	filled bool
	points map[types.Position]Point
}

// Document lays out the whole tree. width <= 0 disables wrapping.
func Document(t *doc.Tree, caps Classifier, sel selection.Selection, th *theme.Theme, width int) Layout {
	l := &layouter{
		t:      t,
		caps:   caps,
		sel:    sel,
		th:     th,
		width:  width,
		points: make(map[types.Position]Point),
	}
	l.children(t.Root(), th.GetStyle("Default"), 0)
	if l.filled || len(l.lines) == 0 {
		l.lines = append(l.lines, l.line)
	}

	out := Layout{Lines: l.lines}
	if p, ok := l.points[sel.Focus]; ok {
		out.Cursor, out.HasCursor = p, true
	}
	return out
}

func (l *layouter) children(n types.NodeID, style tcell.Style, depth int) {
	for i, c := range l.t.Children(n) {
		l.mark(types.Position{Node: n, Offset: i})
		l.node(c, style, depth)
	}
	l.mark(text.EndPos(l.t, n))
}

func (l *layouter) node(n types.NodeID, style tcell.Style, depth int) {
	t := l.t
	if t.IsText(n) {
		l.text(n, style)
		return
	}
	if !l.caps.IsEditable(t, n) {
		style = l.th.GetStyle("NonEditable")
	}

	switch {
	case l.caps.IsBlock(t, n):
		l.newline(depth * indentWidth)
		l.label(t.Tag(n)+" ", l.th.GetStyle("Tag.block"))
		l.indent = l.x
		l.children(n, style, depth+1)
		l.indent = depth * indentWidth
		l.newline(l.indent)
	case l.caps.IsLineBreak(t, n):
		l.emit(Cell{Rune: LineBreakGlyph, Width: 1, Style: l.th.GetStyle("Placeholder")}, n)
		l.newline(l.indent)
	case l.caps.IsInlineAtomic(t, n):
		styleName := "Atomic"
		if !l.caps.IsEditable(t, n) {
			styleName = "NonEditable"
		}
		atomStyle := l.th.GetStyle(styleName)
		for i, r := range "[" + t.Tag(n) + "]" {
			c := Cell{Rune: r, Width: 1, Style: atomStyle}
			if i == 0 {
				l.emit(c, n)
				continue
			}
			l.put(c, l.selected(text.LeftPos(t, n), text.RightPos(t, n)))
		}
	default:
		l.children(n, l.inlineStyle(t.Tag(n), style), depth)
	}
}

func (l *layouter) inlineStyle(tag string, style tcell.Style) tcell.Style {
	switch tag {
	case "b", "strong":
		return style.Bold(true)
	case "i", "em":
		return style.Italic(true)
	case "u":
		return style.Underline(true)
	case "s", "strike", "del":
		return style.StrikeThrough(true)
	case "a":
		return l.th.GetStyleOr("Link", style)
	case "code":
		return l.th.GetStyleOr("Code", style)
	}
	return style
}

func (l *layouter) text(n types.NodeID, style tcell.Style) {
	s := l.t.Text(n)
	off := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		before := types.Position{Node: n, Offset: off}
		after := types.Position{Node: n, Offset: off + len(runes)}
		off += len(runes)
		if string(runes) == text.ZWS {
			l.mark(before)
			continue
		}
		c := Cell{Rune: runes[0], Combining: runes[1:], Width: gr.Width(), Style: style}
		switch c.Rune {
		case '\n', '\t', '\r':
			c = Cell{Rune: ' ', Width: 1, Style: style}
		}
		if c.Width <= 0 {
			c.Width = 1
		}
		l.wrap(c.Width)
		l.mark(before)
		l.put(c, l.selected(before, after))
	}
	l.mark(types.Position{Node: n, Offset: off})
}

// emit places the first cell of a leaf element.
func (l *layouter) emit(c Cell, n types.NodeID) {
	l.wrap(c.Width)
	l.mark(text.LeftPos(l.t, n))
	l.put(c, l.selected(text.LeftPos(l.t, n), text.RightPos(l.t, n)))
}

func (l *layouter) label(s string, style tcell.Style) {
	for _, r := range s {
		l.put(Cell{Rune: r, Width: 1, Style: style}, false)
	}
}

func (l *layouter) put(c Cell, selected bool) {
	if selected {
		c.Style = l.th.GetStyle("Selection")
	}
	l.line = append(l.line, c)
	l.x += c.Width
	l.filled = true
}

func (l *layouter) selected(before, after types.Position) bool {
	if l.sel.IsCollapsed() || !l.t.IsConnected(l.sel.Start.Node) {
		return false
	}
	return l.t.Compare(before, l.sel.Start) >= 0 && l.t.Compare(after, l.sel.End) <= 0
}

// mark records the first screen point of a position.
func (l *layouter) mark(pos types.Position) {
	if _, ok := l.points[pos]; !ok {
		l.points[pos] = Point{X: l.x, Y: len(l.lines)}
	}
}

func (l *layouter) wrap(w int) {
	if l.width > 0 && l.x+w > l.width && l.x > l.indent {
		l.newline(l.indent)
	}
}

// newline ends the current line unless it holds only indentation.
func (l *layouter) newline(indent int) {
	if l.filled {
		l.lines = append(l.lines, l.line)
	}
	if l.width > 0 && indent >= l.width {
		indent = 0
	}
	l.line = nil
	l.x = 0
	l.filled = false
	for i := 0; i < indent; i++ {
		l.line = append(l.line, Cell{Rune: ' ', Width: 1, Style: l.th.GetStyle("Default")})
	}
	l.x = indent
}
