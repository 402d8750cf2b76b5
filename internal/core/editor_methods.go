package core

import (
	"fmt"
	"strings"

	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/core/traverse"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// Deletion operations delegated to the engine.
func (e *Editor) DeleteBackward() (edit.Outcome, error) {
	return e.engine.DeleteBackward()
}

func (e *Editor) DeleteForward() (edit.Outcome, error) {
	return e.engine.DeleteForward()
}

func (e *Editor) DeleteRange() (edit.Outcome, error) {
	return e.engine.DeleteRange()
}

// Copy stores the selected text. It reports false when nothing is selected.
func (e *Editor) Copy() bool {
	s := e.selectionManager.GetSelection()
	if s.IsCollapsed() {
		return false
	}
	e.clipboardManager.Set(e.SelectedText())
	return true
}

// Cut copies the selection, then deletes it. A rejected deletion leaves the
// clipboard untouched.
func (e *Editor) Cut() (edit.Outcome, error) {
	s := e.selectionManager.GetSelection()
	if s.IsCollapsed() {
		return edit.OutcomeNoOp, nil
	}
	content := e.SelectedText()
	out, err := e.engine.DeleteRange()
	if err != nil {
		return out, fmt.Errorf("cut: %w", err)
	}
	if out == edit.OutcomeApplied {
		e.clipboardManager.Set(content)
	}
	return out, nil
}

// Undo reverts the last step. When the selection no longer addresses the
// document it falls back to the document start.
func (e *Editor) Undo() (bool, error) {
	ok, err := e.historyManager.Undo()
	if err != nil || !ok {
		return ok, err
	}
	e.revalidateSelection()
	return true, nil
}

// Redo reapplies the last undone step.
func (e *Editor) Redo() (bool, error) {
	ok, err := e.historyManager.Redo()
	if err != nil || !ok {
		return ok, err
	}
	e.revalidateSelection()
	return true, nil
}

func (e *Editor) revalidateSelection() {
	s := e.selectionManager.GetSelection()
	for _, p := range []types.Position{s.Anchor, s.Focus} {
		if !e.tree.IsConnected(p.Node) || !e.tree.Valid(p) || !e.caps.IsEditable(e.tree, p.Node) {
			logger.Debugf("Editor: selection %v lost, resetting cursor", s)
			e.resetCursor()
			return
		}
	}
}

// InsertText types s at the cursor, replacing the selection first. The
// insertion is one step.
func (e *Editor) InsertText(s string) error {
	if s == "" {
		return nil
	}
	if !e.selectionManager.GetSelection().IsCollapsed() {
		out, err := e.engine.DeleteRange()
		if err != nil {
			return err
		}
		if out == edit.OutcomeRejected {
			return nil
		}
	}

	t := e.tree
	pos := e.selectionManager.GetSelection().Focus
	var at types.Position
	switch {
	case t.IsText(pos.Node):
		old := t.Text(pos.Node)
		t.SetText(pos.Node, text.Slice(old, 0, pos.Offset)+s+text.Slice(old, pos.Offset, text.RuneLen(old)))
		at = types.Position{Node: pos.Node, Offset: pos.Offset + text.RuneLen(s)}
	case pos.Offset > 0 && t.IsText(t.Child(pos.Node, pos.Offset-1)):
		prev := t.Child(pos.Node, pos.Offset-1)
		t.SetText(prev, t.Text(prev)+s)
		at = text.EndPos(t, prev)
	default:
		n := t.NewText(s)
		// A placeholder break stops being needed once the block has text.
		if next := t.Child(pos.Node, pos.Offset); next != types.NoNode && e.caps.IsLineBreak(t, next) && t.NextSibling(next) == types.NoNode && pos.Offset == 0 {
			t.Remove(next)
		}
		t.InsertChild(pos.Node, pos.Offset, n)
		at = text.EndPos(t, n)
	}
	e.historyManager.CommitStep()
	if _, err := e.selectionManager.SetCursor(at); err != nil {
		return fmt.Errorf("insert text: %w", err)
	}
	return nil
}

// MoveCursor moves the focus one grapheme in dir, crossing into the next
// leaf at the edge of a text node. With extend the anchor stays put.
// Without it a range collapses to its edge in dir.
func (e *Editor) MoveCursor(dir types.Direction, extend bool) {
	s := e.selectionManager.GetSelection()
	if !extend && !s.IsCollapsed() {
		edge := s.Start
		if dir == types.Right {
			edge = s.End
		}
		if _, err := e.selectionManager.SetCursor(edge); err != nil {
			logger.Warnf("Editor.MoveCursor: %v", err)
		}
		return
	}

	next, ok := e.stepPosition(s.Focus, dir)
	if !ok {
		return
	}
	anchor := next
	if extend {
		anchor = s.Anchor
	}
	if _, err := e.selectionManager.SetSelection(anchor, next, true); err != nil {
		logger.Warnf("Editor.MoveCursor: %v", err)
	}
}

// stepPosition finds the position one visible unit away from pos.
func (e *Editor) stepPosition(pos types.Position, dir types.Direction) (types.Position, bool) {
	t := e.tree
	if t.IsText(pos.Node) {
		str := t.Text(pos.Node)
		switch {
		case dir == types.Left && pos.Offset > 0:
			return types.Position{Node: pos.Node, Offset: pos.Offset - text.GraphemeBefore(str, pos.Offset)}, true
		case dir == types.Right && pos.Offset < text.RuneLen(str):
			return types.Position{Node: pos.Node, Offset: pos.Offset + text.GraphemeAfter(str, pos.Offset)}, true
		}
		if dir == types.Left {
			pos = text.LeftPos(t, pos.Node)
		} else {
			pos = text.RightPos(t, pos.Node)
		}
	}

	atomic := func(n types.NodeID) bool {
		return t.IsElement(n) && e.caps.IsInlineAtomic(t, n)
	}
	leaf := traverse.New(t, dir, traverse.Options{
		LeafOnly:     true,
		StopTraverse: atomic,
	})(pos.Node, pos.Offset).Find(func(n types.NodeID) bool {
		if !e.caps.IsEditable(t, n) {
			return false
		}
		return atomic(n) || (t.IsText(n) && t.Len(n) > 0 && !text.IsZWS(t.Text(n)))
	})
	if leaf == types.NoNode {
		return pos, false
	}

	// Within a line the step consumes one unit; into another block it only
	// lands at the block's edge.
	sameBlock := e.closestBlock(leaf) == e.closestBlock(pos.Node)
	switch {
	case t.IsText(leaf) && dir == types.Right:
		if sameBlock {
			return types.Position{Node: leaf, Offset: text.GraphemeAfter(t.Text(leaf), 0)}, true
		}
		return text.StartPos(leaf), true
	case t.IsText(leaf):
		end := text.RuneLen(t.Text(leaf))
		if sameBlock {
			return types.Position{Node: leaf, Offset: end - text.GraphemeBefore(t.Text(leaf), end)}, true
		}
		return text.EndPos(t, leaf), true
	case dir == types.Right && sameBlock:
		return text.RightPos(t, leaf), true
	case dir == types.Right:
		return text.LeftPos(t, leaf), true
	case sameBlock:
		return text.LeftPos(t, leaf), true
	}
	return text.RightPos(t, leaf), true
}

func (e *Editor) closestBlock(n types.NodeID) types.NodeID {
	return e.tree.Closest(n, func(c types.NodeID) bool {
		return e.tree.IsElement(c) && e.caps.IsBlock(e.tree, c)
	})
}

// Paste types the clipboard content at the cursor. It reports false when the
// clipboard is empty. Line breaks in the content become spaces.
func (e *Editor) Paste() (bool, error) {
	content := e.clipboardManager.Get()
	if content == "" {
		return false, nil
	}
	content = strings.NewReplacer("\r\n", " ", "\n", " ").Replace(content)
	if err := e.InsertText(content); err != nil {
		return false, fmt.Errorf("paste: %w", err)
	}
	return true, nil
}
