package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/plugin/plugintest"
	"github.com/bethropolis/folio/internal/types"
)

func setup(t *testing.T, cfg map[string]interface{}) *plugintest.API {
	t.Helper()
	api := plugintest.New()
	if cfg != nil {
		api.Config["media"] = cfg
	}
	require.NoError(t, New().Initialize(api))
	return api
}

func TestMediaIsDeletedWhole(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"video", `<p>a<video src="v.mp4"></video>[]</p>`, "<p>a[]</p>"},
		{"embed", `<p>a<span data-embed="tweet">hello</span>[]</p>`, "<p>a[]</p>"},
		{"custom tag", `<p>a<x-map></x-map>[]</p>`, "<p>a[]</p>"},
	}
	api := setup(t, map[string]interface{}{"tags": []interface{}{"x-map"}})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, api.Editor.LoadHTML(tt.in))
			_, err := api.Editor.DeleteBackward()
			require.NoError(t, err)
			assert.Equal(t, tt.want, api.Editor.Marked())
		})
	}
}

func TestEmbedIsNotEditable(t *testing.T) {
	api := setup(t, nil)
	require.NoError(t, api.Editor.LoadHTML(`<p>a[]<span data-embed="x">hi</span></p>`))
	tree := api.Editor.Tree()
	span := tree.Child(tree.FirstChild(tree.Root()), 1)
	caps := api.Editor.Policy()
	assert.False(t, caps.IsEditable(tree, span))
	assert.True(t, caps.IsInlineAtomic(tree, span))
	assert.Error(t, api.Editor.Select(
		types.Position{Node: tree.FirstChild(span), Offset: 0},
		types.Position{Node: tree.FirstChild(span), Offset: 1},
	))
}

func TestBadConfig(t *testing.T) {
	api := plugintest.New()
	api.Config["media"] = map[string]interface{}{"tags": "video"}
	assert.Error(t, New().Initialize(api))
}
