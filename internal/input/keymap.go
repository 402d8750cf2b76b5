package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // For simple rune bindings (rarely needed beyond insert)
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionQuit // Primary quit action (checks modified)
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine

	// --- Ctrl Keys ---
	// tcell reports Ctrl+letter as its own key with ModCtrl set.
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlC] = ActionCopy
	ctrlMap[tcell.KeyCtrlX] = ActionCut
	ctrlMap[tcell.KeyCtrlV] = ActionPaste
	ctrlMap[tcell.KeyCtrlK] = ActionDeleteRange
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings (Special Case for :) ---
	p.runeKeymap[':'] = ActionEnterCommandMode
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
// Input mode is not handled here; the mode handler interprets the action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Check Modifier + Key combinations
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys imply the modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings; Shift extends movement.
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action, Extend: mod == tcell.ModShift}
		}
	}

	// 3. Check Rune mappings (like ':')
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	return ActionEvent{Action: ActionUnknown}
}
