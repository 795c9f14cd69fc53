package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := writeConfig(t, `
actor:
  provider: openai
  model: gpt-4o
loop:
  max_iterations: 5
  actor_timeout: 90s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "openai", cfg.Actor.Provider)
	require.Equal(t, "gpt-4o", cfg.Actor.Model)
	require.Equal(t, 5, cfg.Loop.MaxIterations)

	// Unset fields keep their defaults.
	def := Default()
	require.Equal(t, def.Critic, cfg.Critic)
	require.Equal(t, def.Loop.ActorTemp, cfg.Loop.ActorTemp)
	require.Equal(t, def.DatabasePath, cfg.DatabasePath)

	rc, err := cfg.RefineConfig()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, rc.ActorTimeout)
	require.Equal(t, 2*time.Minute, rc.CriticTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative iterations", "loop:\n  max_iterations: -1\n"},
		{"temperature out of range", "loop:\n  actor_temperature: 1.5\n"},
		{"bad timeout", "loop:\n  actor_timeout: soon\n"},
		{"not yaml", ":::nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestRetryOptions(t *testing.T) {
	path := writeConfig(t, `
retry:
  max_retries: 7
  requests_per_minute: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	rc := cfg.RetryOptions()
	require.Equal(t, 7, rc.MaxRetries)
	require.Equal(t, 30, rc.RequestsPerMinute)
}
