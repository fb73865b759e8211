package config

import (
	"testing"

	"github.com/fedy97/branch-db-state-switcher/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Runtime.Prefer)
	assert.Empty(t, cfg.Runtime.SocketPath)
}

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m, err := NewManager()
	require.NoError(t, err)

	m.GetConfig().Runtime = models.RuntimeConfig{
		Prefer:     "podman",
		SocketPath: "/run/podman/podman.sock",
	}
	require.NoError(t, m.Save())

	reloaded, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, "podman", reloaded.GetConfig().Runtime.Prefer)
	assert.Equal(t, "/run/podman/podman.sock", reloaded.GetConfig().Runtime.SocketPath)
}
