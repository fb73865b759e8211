package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ProjectConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProject(t *testing.T) {
	path := writeConfig(t, `container=pg-dev
databases=app,analytics
user=postgres
password=secret
safe_restore=false
files=.env,uploads/seed.sql
`)

	cfg, err := LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "pg-dev", cfg.Container)
	assert.Equal(t, []string{"app", "analytics"}, cfg.Databases)
	assert.Equal(t, "postgres", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.False(t, cfg.SafeRestore)
	assert.Equal(t, []string{".env", "uploads/seed.sql"}, cfg.Files)
}

func TestLoadProjectSafeRestoreDefaultsTrue(t *testing.T) {
	path := writeConfig(t, `container=pg-dev
databases=app
user=postgres
`)

	cfg, err := LoadProject(path)
	require.NoError(t, err)
	assert.True(t, cfg.SafeRestore)
	assert.Empty(t, cfg.Files)
}

func TestLoadProjectTrimsListEntries(t *testing.T) {
	path := writeConfig(t, `container=pg-dev
databases= app , analytics ,
user=postgres
`)

	cfg, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "analytics"}, cfg.Databases)
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), ProjectConfigFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadProjectMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"container", "databases=app\nuser=postgres\n", "container"},
		{"databases", "container=pg-dev\nuser=postgres\n", "databases"},
		{"user", "container=pg-dev\ndatabases=app\n", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProject(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing configuration: "+tt.want)
		})
	}
}
