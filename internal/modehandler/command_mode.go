package modehandler

import (
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionInsertRune, input.ActionEnterCommandMode:
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)
		mh.statusBar.SetCommandInput(string(mh.cmdBuffer))

	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]
			mh.statusBar.SetCommandInput(string(mh.cmdBuffer))
			break
		}
		mh.setMode(ModeNormal)
		logger.Debugf("ModeHandler: Exiting Command Mode via Backspace")

	case input.ActionInsertNewLine:
		cmdStr := string(mh.cmdBuffer)
		mh.cmdBuffer = nil
		mh.setMode(ModeNormal)
		// Errors are already on the status bar.
		_ = mh.ExecuteCommand(cmdStr)

	case input.ActionQuit:
		mh.cmdBuffer = nil
		mh.setMode(ModeNormal)
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")

	default:
		return false
	}
	return true
}
