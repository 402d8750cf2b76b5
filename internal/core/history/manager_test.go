package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/event"
)

func setup(t *testing.T, src string) (*doc.Tree, *Journal, *[]event.StepCommittedData) {
	t.Helper()
	tr, err := doc.ParseHTML(src)
	require.NoError(t, err)
	events := event.NewManager()
	var steps []event.StepCommittedData
	events.Subscribe(event.TypeStepCommitted, func(e event.Event) bool {
		steps = append(steps, e.Data.(event.StepCommittedData))
		return false
	})
	j := NewJournal(tr, events, 0)
	t.Cleanup(j.Close)
	return tr, j, &steps
}

func TestRevertUntilCheckpoint(t *testing.T) {
	tr, j, _ := setup(t, "<p>abc</p><p>def</p>")
	root := tr.Root()
	p1, p2 := tr.Child(root, 0), tr.Child(root, 1)

	checkpoint := j.MutationCount()
	tr.SetText(tr.FirstChild(p1), "ab")
	tr.AppendChild(p1, tr.FirstChild(p2))
	tr.Remove(p2)
	require.Equal(t, "<p>abdef</p>", tr.HTML())
	assert.Equal(t, checkpoint+4, j.MutationCount())

	require.NoError(t, j.RevertUntil(checkpoint))
	assert.Equal(t, "<p>abc</p><p>def</p>", tr.HTML())
	assert.Equal(t, checkpoint, j.MutationCount())
	assert.False(t, j.CommitStep())
}

func TestPausedCommitIsDeferred(t *testing.T) {
	tr, j, steps := setup(t, "<p>abc</p>")
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))

	j.PauseObserving()
	j.PauseObserving()
	tr.SetText(txt, "ab")
	assert.False(t, j.CommitStep())
	j.ResumeObserving()
	assert.Empty(t, *steps)
	j.ResumeObserving()

	require.Len(t, *steps, 1)
	assert.Equal(t, 1, (*steps)[0].Mutations)
	require.Len(t, j.Steps(), 1)
	assert.Equal(t, (*steps)[0].StepID, j.Steps()[0].ID.String())
}

func TestRevertCannotCrossStep(t *testing.T) {
	tr, j, _ := setup(t, "<p>abc</p>")
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))

	before := j.MutationCount()
	tr.SetText(txt, "ab")
	require.True(t, j.CommitStep())
	err := j.RevertUntil(before)
	assert.ErrorIs(t, err, ErrCrossesStep)
	assert.Equal(t, "<p>ab</p>", tr.HTML())
}

func TestUndoRedo(t *testing.T) {
	tr, j, _ := setup(t, "<p>abc</p>")
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))

	tr.SetText(txt, "ab")
	j.CommitStep()
	tr.SetTag(tr.FirstChild(tr.Root()), "h1")
	j.CommitStep()
	require.Equal(t, "<h1>ab</h1>", tr.HTML())

	ok, err := j.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<p>ab</p>", tr.HTML())

	ok, err = j.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<h1>ab</h1>", tr.HTML())

	j.PauseObserving()
	_, err = j.Undo()
	assert.ErrorIs(t, err, ErrPaused)
	j.ResumeObserving()
}

func TestMaxSteps(t *testing.T) {
	tr, err := doc.ParseHTML("<p>a</p>")
	require.NoError(t, err)
	j := NewJournal(tr, nil, 2)
	defer j.Close()
	txt := tr.FirstChild(tr.FirstChild(tr.Root()))
	for _, s := range []string{"b", "c", "d"} {
		tr.SetText(txt, s)
		j.CommitStep()
	}
	assert.Len(t, j.Steps(), 2)
	j.Clear()
	assert.Empty(t, j.Steps())
}
