// Package statusbar draws the bottom line of the playground.
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/folio/internal/theme"
)

// DefaultMessageTimeout is how long a temporary message stays up.
const DefaultMessageTimeout = 4 * time.Second

// StatusBar holds what the status line shows. Setters are safe to call from
// plugin goroutines.
type StatusBar struct {
	mu      sync.RWMutex
	timeout time.Duration
	now     func() time.Time

	filePath   string
	isModified bool
	selection  string
	editorMode string

	commandActive bool
	command       string

	tempMessage     string
	tempMessageTime time.Time
}

// New creates a status bar. A timeout <= 0 means DefaultMessageTimeout.
func New(timeout time.Duration) *StatusBar {
	if timeout <= 0 {
		timeout = DefaultMessageTimeout
	}
	return &StatusBar{timeout: timeout, now: time.Now}
}

// SetFileInfo updates the file path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetSelectionInfo updates the selection description.
func (sb *StatusBar) SetSelectionInfo(s string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selection = s
}

// SetEditorMode updates the displayed editor mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetCommandInput shows the command line being typed.
func (sb *StatusBar) SetCommandInput(input string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandActive = true
	sb.command = input
}

// ClearCommandInput hides the command line.
func (sb *StatusBar) ClearCommandInput() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandActive = false
	sb.command = ""
}

// SetTemporaryMessage displays a message until the timeout passes.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Line returns the text to draw and the theme style name for it. An
// expired message is cleared.
func (sb *StatusBar) Line() (text, styleName string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.commandActive {
		return ":" + sb.command, "StatusBarCommand"
	}
	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.timeout {
			return sb.tempMessage, "StatusBarMessage"
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	styleName = "StatusBar"
	modifiedIndicator := ""
	if sb.isModified {
		modifiedIndicator = " [Modified]"
		styleName = "StatusBarModified"
	}
	modeIndicator := ""
	if sb.editorMode != "" {
		modeIndicator = " -- " + sb.editorMode
	}
	return fmt.Sprintf("%s%s -- %s%s", fPath, modifiedIndicator, sb.selection, modeIndicator), styleName
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, th *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, styleName := sb.Line()
	style := th.GetStyle(styleName)

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(currentX, y, runes[0], runes[1:], style)
		currentX += clusterWidth
	}
}
