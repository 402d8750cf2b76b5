package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxIterations, cfg.Editor.MaxIterations)
	assert.Equal(t, DefaultMaxSteps, cfg.Editor.MaxSteps)
	assert.Equal(t, "p", cfg.Policy.ParagraphTag)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Same(t, cfg, Get())
}

func TestFileAndValidation(t *testing.T) {
	path := writeConfig(t, `
[logger]
level = "debug"
enabled_tags = ["edit"]

[editor]
max_iterations = -3
max_steps = 20
paragraph_tag = "div"
theme = "Folio Light"

[policy]
unremovable_tags = ["x-lock"]
unbreakable_tags = ["td", "th"]

[plugins.autosave]
enabled = true
interval = "2s"
`)
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxIterations, cfg.Editor.MaxIterations)
	assert.Equal(t, 20, cfg.Editor.MaxSteps)
	assert.Equal(t, "div", cfg.Policy.ParagraphTag)
	assert.Equal(t, "Folio Light", cfg.Editor.Theme)
	assert.Equal(t, []string{"x-lock"}, cfg.Policy.UnremovableTags)
	assert.Equal(t, []string{"td", "th"}, cfg.Policy.UnbreakableTags)
	assert.NotEmpty(t, cfg.Policy.BlockTags)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"edit"}, cfg.Logger.EnabledTags)

	v, ok := cfg.PluginValue("autosave", "interval")
	require.True(t, ok)
	assert.Equal(t, "2s", v)
	_, ok = cfg.PluginValue("wordcount", "enabled")
	assert.False(t, ok)
}

func TestBadFile(t *testing.T) {
	path := writeConfig(t, "[editor\nmax_steps = ")
	cfg, err := LoadConfig(path, nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultMaxSteps, cfg.Editor.MaxSteps)
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, "[editor]\nmax_steps = 20\n")
	var f Flags
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	rest, err := f.ParseFlags(fs, []string{
		"-max-steps", "5", "-loglevel", "warn", "-log-tags", "edit, history,",
		"-system-clipboard", "-e", "<p>a[]</p>", "backspace",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"backspace"}, rest)
	assert.Equal(t, "<p>a[]</p>", *f.Script)

	cfg, err := LoadConfig(path, &f)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Editor.MaxSteps)
	assert.Equal(t, DefaultMaxIterations, cfg.Editor.MaxIterations)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"edit", "history"}, cfg.Logger.EnabledTags)
	assert.True(t, cfg.Editor.SystemClipboard)
}
