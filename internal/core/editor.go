// Package core ties one document to the managers that edit it: selection,
// journal, edit engine and clipboard.
package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/folio/internal/core/clipboard"
	"github.com/bethropolis/folio/internal/core/edit"
	"github.com/bethropolis/folio/internal/core/history"
	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/core/text"
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

// emptyDocument is what a new editor holds.
const emptyDocument = "<p><br></p>"

// Options configure an editor.
type Options struct {
	MaxIterations   int
	MaxSteps        int
	SystemClipboard bool
}

type registeredHook struct {
	point edit.HookPoint
	hook  edit.Hook
}

// Editor owns one document and the managers bound to it. Loading a document
// rebuilds the managers; hooks registered on the editor carry over.
type Editor struct {
	caps         *policy.Capabilities
	eventManager *event.Manager
	opts         Options

	tree             *doc.Tree
	selectionManager *selection.Manager
	historyManager   *history.Journal
	engine           *edit.Engine
	clipboardManager *clipboard.Manager

	hooks    []registeredHook
	filePath string
	// savedHTML is the serialization at the last load or save.
	savedHTML string
}

// NewEditor creates an editor holding an empty paragraph.
func NewEditor(caps *policy.Capabilities, events *event.Manager, opts Options) *Editor {
	e := &Editor{
		caps:             caps,
		eventManager:     events,
		opts:             opts,
		clipboardManager: clipboard.NewManager(opts.SystemClipboard),
	}
	if err := e.LoadHTML(emptyDocument); err != nil {
		// The built-in document always parses.
		panic(err)
	}
	return e
}

// LoadHTML replaces the document. Selection markers in the source ("[" and
// "]" inside text) set the selection; without them the cursor goes to the
// start of the document.
func (e *Editor) LoadHTML(src string) error {
	tree, anchor, focus, err := doc.ParseMarked(src)
	if errors.Is(err, doc.ErrNoMarkers) {
		tree, err = doc.ParseHTML(src)
		if err == nil {
			anchor = documentStart(tree)
			focus = anchor
		}
	}
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.bind(tree)
	if _, err := e.selectionManager.SetSelection(anchor, focus, true); err != nil {
		logger.Warnf("Editor: initial selection %v..%v rejected: %v", anchor, focus, err)
		e.resetCursor()
	}
	// Loaded markup may hold empty blocks; fixing them is not an undoable edit.
	if _, err := e.engine.Normalize(tree.Root()); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.historyManager.Clear()
	e.savedHTML = tree.HTML()
	return nil
}

// Load reads an HTML file into the editor.
func (e *Editor) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := e.LoadHTML(string(data)); err != nil {
		return err
	}
	e.filePath = path
	logger.Infof("Editor: loaded %s", path)
	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{FilePath: path})
	}
	return nil
}

// Save writes the document to path, or to the file it was loaded from when
// path is empty.
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.filePath
	}
	if path == "" {
		return errors.New("save: no file path")
	}
	if err := os.WriteFile(path, []byte(e.tree.HTML()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	e.filePath = path
	e.savedHTML = e.tree.HTML()
	logger.Infof("Editor: saved %s", path)
	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeDocumentSaved, event.DocumentSavedData{FilePath: path})
	}
	return nil
}

func (e *Editor) bind(tree *doc.Tree) {
	if e.selectionManager != nil {
		e.selectionManager.Close()
	}
	if e.historyManager != nil {
		e.historyManager.Close()
	}
	e.tree = tree
	e.selectionManager = selection.NewManager(tree, e.caps, e.eventManager)
	e.historyManager = history.NewJournal(tree, e.eventManager, e.opts.MaxSteps)
	e.engine = edit.New(tree, e.caps, e.selectionManager, e.historyManager, edit.Options{
		MaxIterations: e.opts.MaxIterations,
		Events:        e.eventManager,
	})
	for _, h := range e.hooks {
		e.engine.RegisterHook(h.point, h.hook)
	}
}

// documentStart is the first editable gap of the document.
func documentStart(t *doc.Tree) types.Position {
	leaf := text.FirstLeaf(t, t.Root())
	switch {
	case leaf == types.NoNode || leaf == t.Root():
		return text.StartPos(t.Root())
	case t.IsText(leaf):
		return text.StartPos(leaf)
	}
	return text.LeftPos(t, leaf)
}

func (e *Editor) resetCursor() {
	if _, err := e.selectionManager.SetCursor(documentStart(e.tree)); err != nil {
		logger.Warnf("Editor: cannot place cursor at document start: %v", err)
	}
}

// RegisterHook adds an engine hook that survives document reloads.
func (e *Editor) RegisterHook(point edit.HookPoint, h edit.Hook) {
	for i := range e.hooks {
		if e.hooks[i].point == point && e.hooks[i].hook.Name == h.Name {
			e.hooks[i].hook = h
			e.engine.RegisterHook(point, h)
			return
		}
	}
	e.hooks = append(e.hooks, registeredHook{point: point, hook: h})
	e.engine.RegisterHook(point, h)
}

// UnregisterHook removes an engine hook by name.
func (e *Editor) UnregisterHook(point edit.HookPoint, name string) {
	for i := range e.hooks {
		if e.hooks[i].point == point && e.hooks[i].hook.Name == name {
			e.hooks = append(e.hooks[:i:i], e.hooks[i+1:]...)
			break
		}
	}
	e.engine.UnregisterHook(point, name)
}

func (e *Editor) Tree() *doc.Tree { return e.tree }
func (e *Editor) Engine() *edit.Engine { return e.engine }
func (e *Editor) Policy() *policy.Capabilities { return e.caps }
func (e *Editor) GetEventManager() *event.Manager { return e.eventManager }
func (e *Editor) GetHistoryManager() *history.Journal { return e.historyManager }
func (e *Editor) GetClipboardManager() *clipboard.Manager { return e.clipboardManager }
func (e *Editor) FilePath() string { return e.filePath }

// SetFilePath names the file Save writes to without loading it.
func (e *Editor) SetFilePath(path string) { e.filePath = path }

// IsModified reports whether the document differs from what was last loaded
// or saved. Undoing back to that state clears it.
func (e *Editor) IsModified() bool {
	return e.tree.HTML() != e.savedHTML
}

// GetSelection returns a snapshot of the current selection.
func (e *Editor) GetSelection() selection.Selection {
	return e.selectionManager.GetSelection()
}

// Select sets the selection. Positions outside the editable surface are
// rejected.
func (e *Editor) Select(anchor, focus types.Position) error {
	_, err := e.selectionManager.SetSelection(anchor, focus, true)
	return err
}

// HTML serializes the document.
func (e *Editor) HTML() string {
	return e.tree.HTML()
}

// Marked serializes the document with the selection written in as markers.
func (e *Editor) Marked() string {
	s := e.selectionManager.GetSelection()
	return e.tree.MarkedHTML(s.Anchor, s.Focus)
}

// Text returns the plain text of the whole document.
func (e *Editor) Text() string {
	root := e.tree.Root()
	return clipboard.Extract(e.tree, e.caps, text.StartPos(root), text.EndPos(e.tree, root))
}

// SelectedText returns the plain text of the selection.
func (e *Editor) SelectedText() string {
	s := e.selectionManager.GetSelection()
	if s.IsCollapsed() {
		return ""
	}
	return clipboard.Extract(e.tree, e.caps, s.Start, s.End)
}
