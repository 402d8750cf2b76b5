// Package history records the mutations applied to a document tree and
// groups them into steps.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/bethropolis/folio/internal/doc"
)

// Step is one logical, user-visible change: the mutations of a single
// editing operation.
type Step struct {
	ID        uuid.UUID
	Mutations []doc.Mutation
	Time      time.Time
}

func newStep(muts []doc.Mutation) Step {
	return Step{ID: uuid.New(), Mutations: muts, Time: time.Now()}
}
