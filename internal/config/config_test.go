package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"caster-engine/engine"
	"caster-engine/options"
)

func writeYAML(t *testing.T, s Settings) string {
	t.Helper()

	data, err := yaml.Marshal(s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "caster.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, &Settings{
		Fallbacks: []string{"all"},
		Log:       LogSettings{Level: "info"},
	}, s)
}

func TestLoadFile(t *testing.T) {
	path := writeYAML(t, Settings{
		MaxDepth:    4,
		Concurrency: 2,
		Fallbacks:   []string{"identity", "parse"},
		CompileAll:  true,
		Log:         LogSettings{JSON: true, Level: "debug"},
	})

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, s.MaxDepth)
	assert.Equal(t, 2, s.Concurrency)
	assert.Equal(t, []string{"identity", "parse"}, s.Fallbacks)
	assert.True(t, s.CompileAll)
	assert.False(t, s.Strict)
	assert.Equal(t, LogSettings{JSON: true, Level: "debug"}, s.Log)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeYAML(t, Settings{MaxDepth: 4, Log: LogSettings{Level: "debug"}})

	t.Setenv("CASTER_MAX_DEPTH", "9")
	t.Setenv("CASTER_LOG_LEVEL", "warn")
	t.Setenv("CASTER_STRICT", "true")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9, s.MaxDepth)
	assert.Equal(t, "warn", s.Log.Level)
	assert.True(t, s.Strict)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("CASTER_MAX_DEPTH", "-1")

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
}

func TestEngineOptions(t *testing.T) {
	s := &Settings{MaxDepth: 3, Concurrency: 5, Fallbacks: []string{"identity"}}

	opts, err := s.EngineOptions()
	require.NoError(t, err)

	e, err := engine.New(nil, opts...)
	require.NoError(t, err)

	got := e.Options()
	assert.Equal(t, 3, got.MaxDepth)
	assert.Equal(t, 5, got.Concurrency)
	assert.Equal(t, options.CategoryIdentity, got.Fallbacks)
}

func TestEngineOptionsRejectsUnknownFallback(t *testing.T) {
	s := &Settings{Fallbacks: []string{"telepathy"}}

	_, err := s.EngineOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallbacks")
}

func TestLogger(t *testing.T) {
	l, err := (&Settings{Log: LogSettings{Level: "error"}}).Logger()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))

	_, err = (&Settings{Log: LogSettings{Level: "loud"}}).Logger()
	require.Error(t, err)
}
