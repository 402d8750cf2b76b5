// Package tables protects table structure: cells, rows and row groups keep
// their shape under deletion, and backspace at the start of a cell is a
// no-op instead of a rejected merge.
package tables

import (
	"strings"

	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

var _ plugin.Plugin = (*Tables)(nil)

var (
	structureTags = []string{"table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption"}
	gridTags      = []string{"thead", "tbody", "tfoot", "tr", "td", "th"}
)

// Tables registers the table rules and the cell-start hook.
type Tables struct{}

func New() plugin.Plugin {
	return &Tables{}
}

func (p *Tables) Name() string {
	return "tables"
}

func (p *Tables) Initialize(api plugin.EditorAPI) error {
	api.RegisterRule(policy.Block, policy.TagRule("table-structure", structureTags...))
	api.RegisterRule(policy.Unbreakable, policy.TagRule("table-structure", structureTags...))
	api.RegisterRule(policy.Unremovable, policy.TagRule("table-grid", gridTags...))
	api.RegisterHook(edit.PreBackward, edit.Hook{Name: "table-cell-start", Fn: cellStartHook})
	logger.Debugf("%s: rules and hook registered", p.Name())
	return nil
}

func (p *Tables) Shutdown() error {
	return nil
}

func isCell(t *doc.Tree, n types.NodeID) bool {
	if !t.IsElement(n) {
		return false
	}
	tag := t.Tag(n)
	return tag == "td" || tag == "th"
}

// cellStartHook swallows a backspace with nothing before it in its cell.
func cellStartHook(ctx edit.HookContext) bool {
	sel := ctx.Selection
	if !sel.IsCollapsed() {
		return false
	}
	t := ctx.Tree
	pos := sel.Focus
	cell := t.Closest(pos.Node, func(n types.NodeID) bool { return isCell(t, n) })
	if cell == types.NoNode {
		return false
	}
	return !contentBefore(t, cell, pos)
}

// contentBefore reports visible content inside cell before pos. Whitespace,
// zero-width spaces and line breaks do not count.
func contentBefore(t *doc.Tree, cell types.NodeID, pos types.Position) bool {
	found := false
	t.Walk(cell, func(n types.NodeID) bool {
		if found {
			return false
		}
		if t.IsText(n) {
			s := t.Text(n)
			switch {
			case n == pos.Node:
				s = text.Slice(s, 0, pos.Offset)
			case t.Compare(text.RightPos(t, n), pos) > 0:
				return false
			}
			if strings.TrimSpace(strings.ReplaceAll(s, text.ZWS, "")) != "" {
				found = true
			}
			return false
		}
		if n != cell && t.ChildCount(n) == 0 && t.Tag(n) != "br" && t.Compare(text.RightPos(t, n), pos) <= 0 {
			found = true
		}
		return true
	})
	return found
}
