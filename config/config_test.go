package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/fieldpath/editor"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
limits:
  track_width: 0.5
  max_velocity: 2
fields:
  - { name: small, width: 8, height: 4 }
  - { name: large, width: 16, height: 8 }
field: large
profile:
  time_step: 0.02
editor:
  latch: false
trace_level: debug
`

func TestDefaultIsValid(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.NoError(t, Default().Validate())
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultsMatchNewSession(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cfg := Default()
	assert.Equal(t, params.Limits{TrackWidth: 0.45, MaxVelocity: 1.0, MaxAcceleration: 2.0, MaxJerk: 10.0},
		cfg.ParamLimits())
	assert.Equal(t, editor.AddPath, cfg.StartMode())
	assert.True(t, cfg.Editor.Latch)
	cfg, err := Load(strings.NewReader("editor: { mode: select-path }"))
	require.NoError(t, err)
	assert.Equal(t, editor.SelectPath, cfg.StartMode())
	assert.True(t, cfg.Editor.Latch, "default kept")
}

func TestLoadOverridesDefaults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cfg, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	lim := cfg.ParamLimits()
	assert.Equal(t, 0.5, lim.TrackWidth)
	assert.Equal(t, 2.0, lim.MaxVelocity)
	assert.Equal(t, 2.0, lim.MaxAcceleration, "default kept")
	assert.False(t, cfg.Editor.Latch)
	assert.Equal(t, 0.02, cfg.Generator().TimeStep)
	assert.Equal(t, []string{"small", "large"}, cfg.Catalogue().Names())
	f, err := cfg.Catalogue().Get(cfg.Field)
	require.NoError(t, err)
	assert.Equal(t, 16.0, f.Width)
	cfg.ApplyTraceLevel("config")
}

func TestInvalidConfigs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for name, text := range map[string]string{
		"negative limit": "limits: { max_jerk: -1 }",
		"unknown field":  "field: nowhere",
		"empty size":     "fields: [ { name: x, width: 0, height: 1 } ]\nfield: x",
		"duplicate":      "fields: [ { name: x, width: 1, height: 1 }, { name: x, width: 2, height: 2 } ]\nfield: x",
		"trace level":    "trace_level: loud",
		"editor mode":    "editor: { mode: scribble }",
		"unknown key":    "colour: red",
		"not yaml":       "limits: [",
	} {
		_, err := Load(strings.NewReader(text))
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%s: %v", name, err)
	}
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	name := filepath.Join(t.TempDir(), "fieldpath.yaml")
	require.NoError(t, os.WriteFile(name, []byte(sample), 0o644))
	cfg, err := LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "large", cfg.Field)
	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
