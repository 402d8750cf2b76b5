// Package event is the in-process notification bus shared by the editor,
// the app shell and plugins.
package event

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeDocumentLoaded   // a document replaced the editor tree
	TypeDocumentSaved    // the document was written to disk
	TypeStepCommitted    // the journal committed one step
	TypeSelectionChanged // the selection moved
	TypeEditRejected     // an edit hit a protected node and was rolled back

	// Input events
	TypeKeyPressed // raw key press forwarded from the terminal

	// Application lifecycle events
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeDocumentLoaded:   "document-loaded",
	TypeDocumentSaved:    "document-saved",
	TypeStepCommitted:    "step-committed",
	TypeSelectionChanged: "selection-changed",
	TypeEditRejected:     "edit-rejected",
	TypeKeyPressed:       "key-pressed",
	TypeAppReady:         "app-ready",
	TypeAppQuit:          "app-quit",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentLoadedData names the loaded file ("" for scripted documents).
type DocumentLoadedData struct {
	FilePath string
}

// DocumentSavedData names the file written.
type DocumentSavedData struct {
	FilePath string
}

// StepCommittedData describes a committed journal step.
type StepCommittedData struct {
	StepID    string
	Mutations int
}

// SelectionChangedData carries the new anchor and focus.
type SelectionChangedData struct {
	Anchor types.Position
	Focus  types.Position
}

// EditRejectedData names the operation that was rejected.
type EditRejectedData struct {
	Op     string
	Reason string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

type AppQuitData struct{}

type AppReadyData struct{}
