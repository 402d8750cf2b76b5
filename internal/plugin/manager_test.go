package plugin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/plugin/plugintest"
)

type recorder struct {
	name    string
	initErr error
	log     *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Initialize(plugin.EditorAPI) error {
	*r.log = append(*r.log, "init "+r.name)
	return r.initErr
}

func (r *recorder) Shutdown() error {
	*r.log = append(*r.log, "shutdown "+r.name)
	return nil
}

func TestLifecycleOrder(t *testing.T) {
	var log []string
	m := plugin.NewManager()
	require.NoError(t, m.Register(&recorder{name: "a", log: &log}))
	require.NoError(t, m.Register(&recorder{name: "broken", initErr: errors.New("boom"), log: &log}))
	require.NoError(t, m.Register(&recorder{name: "b", log: &log}))
	assert.Equal(t, []string{"a", "broken", "b"}, m.Names())

	err := m.InitializePlugins(plugintest.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	m.ShutdownPlugins()
	assert.Equal(t, []string{
		"init a", "init broken", "init b",
		"shutdown b", "shutdown a",
	}, log)

	// A second shutdown has nothing left to stop.
	m.ShutdownPlugins()
	assert.Len(t, log, 5)
}

func TestRegisterValidation(t *testing.T) {
	var log []string
	m := plugin.NewManager()
	assert.Error(t, m.Register(&recorder{name: "", log: &log}))
	require.NoError(t, m.Register(&recorder{name: "x", log: &log}))
	assert.Error(t, m.Register(&recorder{name: "x", log: &log}))

	p, ok := m.GetPlugin("x")
	require.True(t, ok)
	assert.Equal(t, "x", p.Name())
	_, ok = m.GetPlugin("y")
	assert.False(t, ok)
}
