// Package edit is the structural edit engine: cursor-directed deletion,
// range deletion, block merging and post-edit normalization over a document
// tree. Every public operation is atomic with respect to the mutation
// journal: it either commits one step or leaves the tree as it found it.
package edit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/folio/internal/core/selection"
	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

// DefaultMaxIterations bounds the rule recursion of a single operation.
const DefaultMaxIterations = 512

// SelectionProvider owns the current selection.
type SelectionProvider interface {
	GetSelection() selection.Selection
	SetSelection(anchor, focus types.Position, normalize bool) (selection.Selection, error)
	SetCursorStart(n types.NodeID) (selection.Selection, error)
	SetCursorEnd(n types.NodeID) (selection.Selection, error)
}

// Journal records mutations so a failed operation can be rolled back.
type Journal interface {
	PauseObserving()
	ResumeObserving()
	MutationCount() int
	RevertUntil(count int) error
	CommitStep() bool
}

// Policy classifies nodes. The engine asks it every structural question.
type Policy interface {
	IsBlock(t *doc.Tree, n types.NodeID) bool
	IsInlineAtomic(t *doc.Tree, n types.NodeID) bool
	IsUnremovable(t *doc.Tree, n types.NodeID) bool
	IsUnbreakable(t *doc.Tree, n types.NodeID) bool
	IsEditable(t *doc.Tree, n types.NodeID) bool
	IsLineBreak(t *doc.Tree, n types.NodeID) bool
	IsParagraphLike(t *doc.Tree, n types.NodeID) bool
	IsDemotable(t *doc.Tree, n types.NodeID) bool
	ParagraphTag() string
	NewPlaceholder(t *doc.Tree) types.NodeID
	Explain(cp policy.Capability, t *doc.Tree, n types.NodeID) string
}

// HookPoint names where a hook runs.
type HookPoint int

const (
	PreBackward HookPoint = iota
	PreForward
	PreRange
)

func (p HookPoint) String() string {
	switch p {
	case PreBackward:
		return "pre-backward"
	case PreForward:
		return "pre-forward"
	case PreRange:
		return "pre-range"
	}
	return fmt.Sprintf("hook(%d)", int(p))
}

// HookContext is what a hook sees. Hooks run inside the operation's
// bracket: their mutations are rolled back or committed with it.
type HookContext struct {
	Tree      *doc.Tree
	Selection selection.Selection
	Point     HookPoint
}

// Hook runs before the default algorithm. Returning true means the hook
// handled the operation.
type Hook struct {
	Name string
	Fn   func(ctx HookContext) bool
}

// Options configure an engine.
type Options struct {
	MaxIterations int
	// Events receives TypeEditRejected. May be nil.
	Events *event.Manager
}

// Engine applies structural edits to one document.
type Engine struct {
	tree    *doc.Tree
	caps    Policy
	sel     SelectionProvider
	journal Journal
	events  *event.Manager

	maxIterations int

	hooksMu sync.RWMutex
	hooks   map[HookPoint][]Hook

	// Per-operation state, valid inside run.
	busy       bool
	op         string
	cursor     *doc.Live
	iterations int
	reason     string
}

// step is the immutable context of one rule invocation.
type step struct {
	pos          types.Position
	alreadyMoved bool
	depth        int
}

func (s step) at(pos types.Position) step {
	return step{pos: pos, alreadyMoved: s.alreadyMoved, depth: s.depth + 1}
}

func (s step) moved(pos types.Position) step {
	return step{pos: pos, alreadyMoved: true, depth: s.depth + 1}
}

type rule func(e *Engine, s step) Result

// firstOf runs rules in order until one of them decides.
func firstOf(rules ...rule) rule {
	return func(e *Engine, s step) Result {
		for _, r := range rules {
			if res := r(e, s); res != NotHandled {
				return res
			}
		}
		return NotHandled
	}
}

// New creates an engine.
func New(tree *doc.Tree, caps Policy, sel SelectionProvider, journal Journal, opts Options) *Engine {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Engine{
		tree:          tree,
		caps:          caps,
		sel:           sel,
		journal:       journal,
		events:        opts.Events,
		maxIterations: opts.MaxIterations,
		hooks:         make(map[HookPoint][]Hook),
	}
}

// Tree returns the document the engine edits.
func (e *Engine) Tree() *doc.Tree {
	return e.tree
}

// RegisterHook appends a hook. A hook with the same name at the same point
// is replaced in place.
func (e *Engine) RegisterHook(point HookPoint, h Hook) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	list := e.hooks[point]
	for i := range list {
		if list[i].Name == h.Name {
			list[i] = h
			logger.Debugf("Edit: replaced hook %q at %s", h.Name, point)
			return
		}
	}
	e.hooks[point] = append(list, h)
	logger.Debugf("Edit: registered hook %q at %s", h.Name, point)
}

// UnregisterHook removes a hook by name.
func (e *Engine) UnregisterHook(point HookPoint, name string) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	list := e.hooks[point]
	for i := range list {
		if list[i].Name == name {
			e.hooks[point] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (e *Engine) runHooks(point HookPoint, sel selection.Selection) bool {
	e.hooksMu.RLock()
	list := append([]Hook(nil), e.hooks[point]...)
	e.hooksMu.RUnlock()
	ctx := HookContext{Tree: e.tree, Selection: sel, Point: point}
	for _, h := range list {
		if h.Fn(ctx) {
			logger.DebugTagf("edit", "Edit: hook %q intercepted %s", h.Name, point)
			return true
		}
	}
	return false
}

// DeleteBackward deletes one unit before the cursor, or the selection.
func (e *Engine) DeleteBackward() (Outcome, error) {
	return e.Delete(types.Left)
}

// DeleteForward deletes one unit after the cursor, or the selection.
func (e *Engine) DeleteForward() (Outcome, error) {
	return e.Delete(types.Right)
}

// Delete dispatches on the selection: range deletion when it is not
// collapsed, cursor-directed deletion in dir otherwise.
func (e *Engine) Delete(dir types.Direction) (Outcome, error) {
	if !e.sel.GetSelection().IsCollapsed() {
		return e.DeleteRange()
	}
	if dir == types.Left {
		return e.run("deleteBackward", PreBackward, func(sel selection.Selection) Result {
			return e.deleteBackward(step{pos: sel.Focus})
		})
	}
	return e.run("deleteForward", PreForward, func(sel selection.Selection) Result {
		return e.deleteForward(step{pos: sel.Focus})
	})
}

// DeleteRange removes the selected content and collapses the selection.
// A collapsed selection is a no-op.
func (e *Engine) DeleteRange() (Outcome, error) {
	return e.run("deleteRange", PreRange, func(sel selection.Selection) Result {
		if sel.IsCollapsed() {
			return Handled
		}
		return e.deleteRange(sel)
	})
}

// MergeBlocks joins right into left. Empty ancestors of the removed node are
// pruned up to bound.
func (e *Engine) MergeBlocks(left, right, bound types.NodeID) (Outcome, error) {
	return e.run("mergeBlocks", -1, func(selection.Selection) Result {
		for _, n := range []types.NodeID{left, right, bound} {
			if !e.tree.IsConnected(n) {
				invariantf(e.op, "node %d is not attached", n)
			}
		}
		e.mergeBlocks(left, right, bound)
		return Handled
	})
}

// Normalize fills empty blocks and drops invisible inline wrappers below
// root.
func (e *Engine) Normalize(root types.NodeID) (Outcome, error) {
	return e.run("normalize", -1, func(selection.Selection) Result {
		if !e.tree.IsConnected(root) {
			invariantf(e.op, "node %d is not attached", root)
		}
		e.normalize(root)
		return Handled
	})
}

// run is the operation bracket: pause the journal, remember the checkpoint
// and the selection, run the body, then either roll everything back or
// normalize, place the selection and commit one step.
func (e *Engine) run(op string, point HookPoint, body func(sel selection.Selection) Result) (Outcome, error) {
	if e.busy {
		return OutcomeNoOp, fmt.Errorf("%s: %w", op, ErrReentrant)
	}
	e.busy = true
	defer func() { e.busy = false }()

	before := e.sel.GetSelection()
	checkpoint := e.journal.MutationCount()
	e.journal.PauseObserving()
	resumed := false
	defer func() {
		if !resumed {
			e.journal.ResumeObserving()
		}
	}()

	e.op = op
	e.iterations = 0
	e.reason = ""
	e.cursor = e.tree.Track(before.Focus)
	origin := e.tree.Track(before.Start)
	defer func() {
		e.cursor.Release()
		origin.Release()
		e.cursor = nil
	}()

	logger.DebugTagf("edit", "Edit: %s at %s", op, before)

	intercepted := false
	res, err := e.guard(func() Result {
		if point >= 0 && e.runHooks(point, before) {
			intercepted = true
			return Handled
		}
		return body(before)
	})

	changed := e.journal.MutationCount() != checkpoint
	if err == nil && res != Rejected && changed && !intercepted {
		_, err = e.guard(func() Result {
			e.normalizeAround(origin.Pos(), e.cursor.Pos())
			return Handled
		})
	}
	if err == nil && res != Rejected && !intercepted && (changed || (point == PreRange && !before.IsCollapsed())) {
		err = e.placeSelection()
	}

	if err != nil || res == Rejected {
		if rerr := e.rollback(checkpoint, before); rerr != nil {
			err = errors.Join(err, rerr)
		}
		if err != nil {
			logger.Errorf("Edit: %s failed: %v", op, err)
			return OutcomeNoOp, fmt.Errorf("%s: %w", op, err)
		}
		logger.DebugTagf("edit", "Edit: %s rejected", op)
		e.journal.ResumeObserving()
		resumed = true
		if e.events != nil {
			e.events.Dispatch(event.TypeEditRejected, event.EditRejectedData{Op: op, Reason: e.reason})
		}
		return OutcomeRejected, nil
	}

	e.journal.ResumeObserving()
	resumed = true
	changed = e.journal.MutationCount() != checkpoint
	if changed {
		e.journal.CommitStep()
	}
	switch {
	case intercepted:
		return OutcomeIntercepted, nil
	case changed:
		return OutcomeApplied, nil
	}
	return OutcomeNoOp, nil
}

// guard converts invariant panics raised inside fn into errors.
func (e *Engine) guard(fn func() Result) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *InvariantError:
				err = v
			case *doc.StructureError:
				err = fmt.Errorf("%w: %v", ErrInvariant, v)
			default:
				panic(r)
			}
		}
	}()
	return fn(), nil
}

func (e *Engine) placeSelection() error {
	pos := e.cursor.Pos()
	if !e.tree.Valid(pos) {
		return &InvariantError{Op: e.op, Msg: fmt.Sprintf("cursor %s does not revalidate", pos)}
	}
	if _, err := e.sel.SetSelection(pos, pos, true); err != nil {
		return fmt.Errorf("%w: cursor %s: %v", ErrInvariant, pos, err)
	}
	return nil
}

func (e *Engine) rollback(checkpoint int, before selection.Selection) error {
	if err := e.journal.RevertUntil(checkpoint); err != nil {
		return err
	}
	if _, err := e.sel.SetSelection(before.Anchor, before.Focus, false); err != nil {
		return fmt.Errorf("restore selection: %w", err)
	}
	return nil
}

// tick counts one rule invocation against the iteration cap.
func (e *Engine) tick(s step) {
	e.iterations++
	if e.iterations > e.maxIterations || s.depth > e.maxIterations {
		invariantf(e.op, "iteration cap %d exceeded at %s", e.maxIterations, s.pos)
	}
}

func (e *Engine) setCursor(pos types.Position) {
	e.cursor.Set(pos)
}

// reject logs which rule protected n and stops the operation.
func (e *Engine) reject(cp policy.Capability, n types.NodeID) Result {
	rule := e.caps.Explain(cp, e.tree, n)
	e.reason = fmt.Sprintf("<%s> is %s (rule %q)", e.tree.Tag(n), cp, rule)
	logger.DebugTagf("edit", "Edit: %s rejected: %s", e.op, e.reason)
	return Rejected
}
