package autosave

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/plugin/plugintest"
)

func setup(t *testing.T, cfg map[string]interface{}) (*plugintest.API, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>abc</p>"), 0o644))

	api := plugintest.New()
	api.Config["autosave"] = cfg
	require.NoError(t, api.Editor.Load(path))
	require.NoError(t, api.Editor.LoadHTML("<p>abc[]</p>"))
	return api, path
}

func TestSavesAfterQuietInterval(t *testing.T) {
	api, path := setup(t, map[string]interface{}{"enabled": true, "interval": "10ms"})
	p := New()
	require.NoError(t, p.Initialize(api))
	t.Cleanup(func() { _ = p.Shutdown() })

	_, err := api.Editor.DeleteBackward()
	require.NoError(t, err)
	_, err = api.Editor.DeleteBackward()
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return api.RunScheduled() > 0 }, time.Second, 5*time.Millisecond)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", string(data))
	assert.False(t, api.IsModified())
}

func TestDisabledByDefault(t *testing.T) {
	api, path := setup(t, map[string]interface{}{"interval": "bogus"})
	p := New()
	require.NoError(t, p.Initialize(api))

	_, err := api.Editor.DeleteBackward()
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, api.RunScheduled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>abc</p>", string(data))
	require.NoError(t, p.Shutdown())
}

func TestShutdownCancelsPendingSave(t *testing.T) {
	api, _ := setup(t, map[string]interface{}{"enabled": true, "interval": "1h"})
	p := New()
	require.NoError(t, p.Initialize(api))

	_, err := api.Editor.DeleteBackward()
	require.NoError(t, err)
	require.NoError(t, p.Shutdown())
	assert.Zero(t, api.RunScheduled())
}
