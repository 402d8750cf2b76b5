package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/theme"
)

func layout(t *testing.T, src string, width int) (Layout, *theme.Theme) {
	t.Helper()
	ed := core.NewEditor(policy.Default(policy.DefaultConfig()), nil, core.Options{})
	require.NoError(t, ed.LoadHTML(src))
	th := theme.FolioDark
	return Document(ed.Tree(), ed.Policy(), ed.GetSelection(), &th, width), &th
}

func TestDocumentLines(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		width  int
		want   []string
		cursor Point
	}{
		{
			name:   "blocks and inlines",
			src:    "<h1>Ti[]tle</h1><p>a<b>b</b><img>c<br>d</p>",
			want:   []string{"h1 Title", "p ab[img]c\u21b5", "  d"},
			cursor: Point{X: 5, Y: 0},
		},
		{
			name:   "empty paragraph",
			src:    "<p>[]<br></p>",
			want:   []string{"p \u21b5"},
			cursor: Point{X: 2, Y: 0},
		},
		{
			name:   "nested blocks indent",
			src:    "<ul><li>one</li><li>t[]wo</li></ul>",
			want:   []string{"ul", "  li one", "  li two"},
			cursor: Point{X: 6, Y: 2},
		},
		{
			name:   "wrap keeps indentation",
			src:    "<p>abcdefgh[]</p>",
			width:  6,
			want:   []string{"p abcd", "  efgh"},
			cursor: Point{X: 6, Y: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := layout(t, tt.src, tt.width)
			if diff := cmp.Diff(tt.want, got.Text()); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
			require.True(t, got.HasCursor)
			assert.Equal(t, tt.cursor, got.Cursor)
		})
	}
}

func TestDocumentStyles(t *testing.T) {
	got, th := layout(t, "<p>a[bc]d <code>x</code></p>", 0)
	line := got.Lines[0]
	require.Equal(t, "p abcd x", got.Text()[0])

	assert.Equal(t, th.GetStyle("Tag.block"), line[0].Style)
	assert.Equal(t, th.GetStyle("Default"), line[2].Style)
	assert.Equal(t, th.GetStyle("Selection"), line[3].Style)
	assert.Equal(t, th.GetStyle("Selection"), line[4].Style)
	assert.Equal(t, th.GetStyle("Default"), line[5].Style)
	assert.Equal(t, th.GetStyle("Code"), line[7].Style)
	assert.Equal(t, Point{X: 5, Y: 0}, got.Cursor)
}

func TestDocumentSkipsZeroWidthMarkers(t *testing.T) {
	got, _ := layout(t, "<p>a<b>\u200b[]</b>c</p>", 0)
	assert.Equal(t, []string{"p ac"}, got.Text())
	assert.Equal(t, Point{X: 3, Y: 0}, got.Cursor)
}
