package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
)

const DefaultMaxSteps = 100

var (
	// ErrCrossesStep is returned when a revert would undo mutations that
	// already belong to a committed step.
	ErrCrossesStep = errors.New("revert crosses a committed step")
	// ErrPaused is returned by Undo and Redo while observation is paused.
	ErrPaused = errors.New("journal is paused")
)

// Journal observes every mutation of a tree. Pending mutations can be
// reverted to a checkpoint or committed as a step.
type Journal struct {
	mutex  sync.Mutex
	tree   *doc.Tree
	events *event.Manager

	pending      []doc.Mutation
	committed    int // mutations ever committed; MutationCount = committed + len(pending)
	steps        []Step
	currentIndex int // index of the next step to redo
	maxSteps     int

	paused   int
	deferred bool // CommitStep was requested while paused
}

// NewJournal starts observing tree. events may be nil.
func NewJournal(tree *doc.Tree, events *event.Manager, maxSteps int) *Journal {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	j := &Journal{
		tree:     tree,
		events:   events,
		steps:    make([]Step, 0, maxSteps),
		maxSteps: maxSteps,
	}
	tree.SetObserver(j.record)
	return j
}

// Close stops observing the tree.
func (j *Journal) Close() {
	j.tree.SetObserver(nil)
}

func (j *Journal) record(m doc.Mutation) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.pending = append(j.pending, m)
}

// PauseObserving starts a bracket. Mutations are still captured so they can
// be reverted, but nothing is published and CommitStep waits for the
// outermost ResumeObserving. Brackets nest.
func (j *Journal) PauseObserving() {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.paused++
}

// ResumeObserving ends a bracket and runs a deferred commit when the
// outermost bracket closes.
func (j *Journal) ResumeObserving() {
	j.mutex.Lock()
	if j.paused == 0 {
		j.mutex.Unlock()
		logger.Warnf("History: ResumeObserving without PauseObserving")
		return
	}
	j.paused--
	run := j.paused == 0 && j.deferred
	if run {
		j.deferred = false
	}
	j.mutex.Unlock()
	if run {
		j.CommitStep()
	}
}

// IsPaused reports whether a bracket is open.
func (j *Journal) IsPaused() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.paused > 0
}

// MutationCount is the checkpoint value to pass to RevertUntil.
func (j *Journal) MutationCount() int {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.committed + len(j.pending)
}

// PendingCount is the number of mutations not yet committed.
func (j *Journal) PendingCount() int {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return len(j.pending)
}

// RevertUntil undoes pending mutations, newest first, until MutationCount
// equals count.
func (j *Journal) RevertUntil(count int) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if count < j.committed {
		return fmt.Errorf("revert to %d (committed %d): %w", count, j.committed, ErrCrossesStep)
	}
	keep := count - j.committed
	if keep >= len(j.pending) {
		return nil
	}
	undo := j.pending[keep:]
	logger.DebugTagf("history", "History: reverting %d mutation(s) to checkpoint %d", len(undo), count)
	j.applyUnobserved(func() {
		for i := len(undo) - 1; i >= 0; i-- {
			j.tree.Apply(undo[i].Invert())
		}
	})
	j.pending = j.pending[:keep]
	return nil
}

// applyUnobserved runs fn with the tree observer detached so replayed
// mutations are not recorded again. The caller holds the mutex.
func (j *Journal) applyUnobserved(fn func()) {
	j.tree.SetObserver(nil)
	defer j.tree.SetObserver(j.record)
	fn()
}

// CommitStep packages the pending mutations into a step. While paused the
// commit is deferred to the outermost ResumeObserving. It reports whether a
// step was created.
func (j *Journal) CommitStep() bool {
	j.mutex.Lock()
	if j.paused > 0 {
		j.deferred = true
		j.mutex.Unlock()
		return false
	}
	if len(j.pending) == 0 {
		j.mutex.Unlock()
		return false
	}

	step := newStep(j.pending)
	j.committed += len(j.pending)
	j.pending = nil

	if j.currentIndex < len(j.steps) {
		j.steps = j.steps[:j.currentIndex]
	}
	j.steps = append(j.steps, step)
	if len(j.steps) > j.maxSteps {
		j.steps = j.steps[len(j.steps)-j.maxSteps:]
	}
	j.currentIndex = len(j.steps)
	j.mutex.Unlock()

	logger.DebugTagf("history", "History: committed step %s with %d mutation(s). Index: %d", step.ID, len(step.Mutations), j.currentIndex)
	if j.events != nil {
		j.events.Dispatch(event.TypeStepCommitted, event.StepCommittedData{
			StepID:    step.ID.String(),
			Mutations: len(step.Mutations),
		})
	}
	return true
}

// Steps returns the committed steps, oldest first, up to the undo point.
func (j *Journal) Steps() []Step {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return append([]Step(nil), j.steps[:j.currentIndex]...)
}

// Undo reverts the last committed step. Pending mutations are discarded
// first so the tree matches the last step.
func (j *Journal) Undo() (bool, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.paused > 0 {
		return false, ErrPaused
	}
	if j.currentIndex <= 0 {
		logger.DebugTagf("history", "History: nothing to undo")
		return false, nil
	}
	j.currentIndex--
	step := j.steps[j.currentIndex]
	pending := j.pending
	j.applyUnobserved(func() {
		for i := len(pending) - 1; i >= 0; i-- {
			j.tree.Apply(pending[i].Invert())
		}
		for i := len(step.Mutations) - 1; i >= 0; i-- {
			j.tree.Apply(step.Mutations[i].Invert())
		}
	})
	j.pending = nil
	logger.DebugTagf("history", "History: undid step %s", step.ID)
	return true, nil
}

// Redo reapplies the last undone step.
func (j *Journal) Redo() (bool, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.paused > 0 {
		return false, ErrPaused
	}
	if j.currentIndex >= len(j.steps) || len(j.pending) > 0 {
		logger.DebugTagf("history", "History: nothing to redo")
		return false, nil
	}
	step := j.steps[j.currentIndex]
	j.applyUnobserved(func() {
		for _, m := range step.Mutations {
			j.tree.Apply(m)
		}
	})
	j.currentIndex++
	logger.DebugTagf("history", "History: redid step %s", step.ID)
	return true, nil
}

// Clear drops every step and pending mutation. Call this on document load.
func (j *Journal) Clear() {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.committed += len(j.pending)
	j.pending = nil
	j.steps = j.steps[:0]
	j.currentIndex = 0
	logger.DebugTagf("history", "History: cleared")
}
