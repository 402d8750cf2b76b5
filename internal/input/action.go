package input

import "fmt"

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota // Default/invalid action
	ActionQuit                    // Checks modified status
	ActionForceQuit               // Quit without checking modified status
	ActionSave

	// --- Cursor Movement ---
	ActionMoveLeft
	ActionMoveRight

	// --- Document Editing ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Enter; executes the command line in command mode
	ActionDeleteCharBackward // Backspace key
	ActionDeleteCharForward  // Delete key
	ActionDeleteRange        // Deletes the selection
	ActionUndo
	ActionRedo
	ActionCopy
	ActionCut
	ActionPaste

	// --- Editor Mode ---
	ActionEnterCommandMode // Special action for ':'
)

var actionNames = map[Action]string{
	ActionQuit:               "quit",
	ActionForceQuit:          "force-quit",
	ActionSave:               "save",
	ActionMoveLeft:           "left",
	ActionMoveRight:          "right",
	ActionInsertRune:         "insert",
	ActionInsertNewLine:      "enter",
	ActionDeleteCharBackward: "backspace",
	ActionDeleteCharForward:  "delete",
	ActionDeleteRange:        "range",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
	ActionCopy:               "copy",
	ActionCut:                "cut",
	ActionPaste:              "paste",
	ActionEnterCommandMode:   "command",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
// It might carry payload data needed for the action (like the rune to insert).
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
	// Extend keeps the selection anchor during movement (Shift held).
	Extend bool
}

// ParseScript decodes one word of a scripted key sequence: an action name
// ("backspace", "delete", "range", "undo", ...), optionally prefixed with
// "shift+" for movement, or "type:<text>" which yields one insert per rune.
func ParseScript(word string) ([]ActionEvent, error) {
	if rest, ok := cutPrefix(word, "type:"); ok {
		events := make([]ActionEvent, 0, len(rest))
		for _, r := range rest {
			events = append(events, ActionEvent{Action: ActionInsertRune, Rune: r})
		}
		return events, nil
	}
	extend := false
	if rest, ok := cutPrefix(word, "shift+"); ok {
		word, extend = rest, true
	}
	for a, n := range actionNames {
		if n != word || a == ActionInsertRune {
			continue
		}
		if extend && a != ActionMoveLeft && a != ActionMoveRight {
			return nil, fmt.Errorf("shift+ only applies to left and right, not %q", word)
		}
		return []ActionEvent{{Action: a, Extend: extend}}, nil
	}
	return nil, fmt.Errorf("unknown key %q", word)
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return s, false
}
