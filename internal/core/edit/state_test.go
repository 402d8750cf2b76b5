package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/types"
)

func TestEdgeState(t *testing.T) {
	tests := []struct {
		name string
		src  string
		dir  types.Direction
		want State
		tag  string // parent tag of the deciding node, when checked
	}{
		{"content left", "<p>ab[] cd</p>", types.Left, StateContent, "p"},
		{"space right", "<p>ab[] cd</p>", types.Right, StateSpace, "p"},
		{"space in a sibling inline", "<p>ab[]<b> </b>cd</p>", types.Right, StateSpace, "b"},
		{"trailing space is not content", "<p>ab[]<b> </b></p>", types.Right, StateBlockOutside, ""},
		{"line break", "<p>ab[]<br/>c</p>", types.Right, StateBreak, ""},
		{"end of block", "<p>ab[]</p><p>c</p>", types.Right, StateBlockOutside, ""},
		{"nested block", "<div>ab[]<p>c</p></div>", types.Right, StateBlockInside, ""},
		{"zero width only", "<p>\u200b[]</p>", types.Left, StateBlockOutside, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.src)
			st, at := f.eng.edgeState(f.sel.GetSelection().Focus, tt.dir)
			assert.Equal(t, tt.want, st, "got %s", st)
			if tt.tag != "" {
				require.True(t, f.tree.IsText(at))
				assert.Equal(t, tt.tag, f.tree.Tag(f.tree.Parent(at)))
			}
		})
	}
}
