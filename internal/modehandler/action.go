package modehandler

import (
	"strings"

	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// executeAction handles actions when in ModeNormal.
func (mh *ModeHandler) executeAction(actionEvent input.ActionEvent) bool {
	actionProcessed := true

	switch actionEvent.Action {
	case input.ActionEnterCommandMode:
		mh.cmdBuffer = nil
		mh.setMode(ModeCommand)
		logger.Debugf("ModeHandler: Entering Command Mode")

	case input.ActionQuit:
		if mh.editor.IsModified() && !mh.forceQuitPending {
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
			mh.forceQuitPending = true
			return true
		}
		mh.Quit()
		return false
	case input.ActionForceQuit:
		mh.Quit()
		return false

	case input.ActionSave:
		if err := mh.editor.Save(""); err != nil {
			mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
		} else {
			mh.statusBar.SetTemporaryMessage("Saved to %s", mh.editor.FilePath())
		}

	case input.ActionMoveLeft:
		mh.editor.MoveCursor(types.Left, actionEvent.Extend)
	case input.ActionMoveRight:
		mh.editor.MoveCursor(types.Right, actionEvent.Extend)

	case input.ActionInsertRune:
		if err := mh.editor.InsertText(string(actionEvent.Rune)); err != nil {
			logger.Debugf("Err InsertText: %v", err)
			mh.statusBar.SetTemporaryMessage("Insert failed: %v", err)
		}

	case input.ActionDeleteCharBackward:
		mh.report("Backspace", mh.editor.DeleteBackward)
	case input.ActionDeleteCharForward:
		mh.report("Delete", mh.editor.DeleteForward)
	case input.ActionDeleteRange:
		mh.report("Delete range", mh.editor.DeleteRange)

	case input.ActionCopy:
		if mh.editor.Copy() {
			mh.statusBar.SetTemporaryMessage("Selection copied")
		} else {
			mh.statusBar.SetTemporaryMessage("Nothing selected to copy")
		}
	case input.ActionCut:
		mh.report("Cut", mh.editor.Cut)
	case input.ActionPaste:
		pasted, err := mh.editor.Paste()
		switch {
		case err != nil:
			mh.statusBar.SetTemporaryMessage("Paste failed: %v", err)
			logger.Debugf("Paste error: %v", err)
		case !pasted:
			mh.statusBar.SetTemporaryMessage("Clipboard empty - nothing to paste")
		}

	case input.ActionUndo:
		mh.history("Undo", mh.editor.Undo)
	case input.ActionRedo:
		mh.history("Redo", mh.editor.Redo)

	default:
		actionProcessed = false
	}

	if actionProcessed && actionEvent.Action != input.ActionQuit {
		mh.forceQuitPending = false
	}
	return actionProcessed
}

// report runs an engine operation. Rejections reach the status bar through
// the edit-rejected event.
func (mh *ModeHandler) report(name string, op func() (edit.Outcome, error)) {
	out, err := op()
	if err != nil {
		logger.Errorf("ModeHandler: %s failed: %v", name, err)
		mh.statusBar.SetTemporaryMessage("%s failed: %v", name, err)
		return
	}
	logger.Debugf("ModeHandler: %s -> %v", name, out)
}

func (mh *ModeHandler) history(name string, op func() (bool, error)) {
	ok, err := op()
	switch {
	case err != nil:
		mh.statusBar.SetTemporaryMessage("%s failed: %v", name, err)
		logger.Debugf("%s error: %v", name, err)
	case !ok:
		mh.statusBar.SetTemporaryMessage("Nothing to %s", strings.ToLower(name))
	}
}
