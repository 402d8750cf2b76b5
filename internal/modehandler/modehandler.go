// Package modehandler turns decoded key actions into editor calls. It owns
// the input mode and the command registry.
package modehandler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/statusbar"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
)

func (m InputMode) String() string {
	if m == ModeCommand {
		return "COMMAND"
	}
	return "NORMAL"
}

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	quitSignal     chan<- struct{}
	quitOnce       sync.Once

	currentMode      InputMode
	cmdBuffer        []rune
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	QuitSignal     chan<- struct{}
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	mh := &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		quitSignal:     cfg.QuitSignal,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
	mh.statusBar.SetEditorMode(mh.currentMode.String())
	return mh
}

// HandleKeyEvent decodes a key and runs it in the current mode. It reports
// whether the screen needs a redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})
	return mh.HandleAction(mh.inputProcessor.ProcessEvent(ev))
}

// HandleAction runs one decoded action in the current mode.
func (mh *ModeHandler) HandleAction(actionEvent input.ActionEvent) bool {
	switch mh.currentMode {
	case ModeNormal:
		return mh.executeAction(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	}
	logger.Debugf("Warning: Unknown input mode: %v", mh.currentMode)
	return false
}

// Quit signals the application to stop. It is safe to call more than once.
func (mh *ModeHandler) Quit() {
	mh.quitOnce.Do(func() { close(mh.quitSignal) })
}

// RequestQuit quits unless the document has unsaved changes and force is
// false.
func (mh *ModeHandler) RequestQuit(force bool) error {
	if !force && mh.editor.IsModified() {
		return fmt.Errorf("unsaved changes (use :q! to discard)")
	}
	mh.Quit()
	return nil
}

// RegisterCommand adds a command to the registry.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("command name %q contains whitespace", name)
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.Debugf("ModeHandler: Registered command ':%s'", name)
	return nil
}

// Commands returns the registered command names, sorted.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for n := range mh.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ExecuteCommand parses a command line such as "theme Folio Light" and runs
// it. Failures are shown on the status bar and returned.
func (mh *ModeHandler) ExecuteCommand(cmdStr string) error {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return nil
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
		return fmt.Errorf("%s: %w", cmdName, err)
	}
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command line being typed.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}

func (mh *ModeHandler) setMode(m InputMode) {
	mh.currentMode = m
	mh.statusBar.SetEditorMode(m.String())
	if m == ModeCommand {
		mh.statusBar.SetCommandInput(string(mh.cmdBuffer))
	} else {
		mh.statusBar.ClearCommandInput()
	}
}
