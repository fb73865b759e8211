package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"main", "main"},
		{"feature/login", "feature_login"},
		{"feature/auth/oauth", "feature_auth_oauth"},
		{"  main  ", "main"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.branch))
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("main"))
	assert.True(t, ValidName("feature_login"))
	assert.True(t, ValidName("release-1.2"))

	assert.False(t, ValidName(""))
	assert.False(t, ValidName("feature/login"))
	assert.False(t, ValidName("with space"))
	assert.False(t, ValidName(`back\slash`))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "app-main.dump", ArtifactName("app", "main"))
	assert.Equal(t, "analytics-feature_login.dump", ArtifactName("analytics", "feature_login"))
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, BackupDir+"/app-main.dump", ArtifactPath("app", "main"))
}

func TestSafetyArtifactName(t *testing.T) {
	name := SafetyArtifactName("app")

	assert.True(t, strings.HasPrefix(name, "app-safety-"))
	assert.True(t, strings.HasSuffix(name, ".dump"))

	// names must be unique across runs
	assert.NotEqual(t, name, SafetyArtifactName("app"))
}

func TestFileCopyName(t *testing.T) {
	assert.Equal(t, ".env-main", FileCopyName(".env", "main"))
	assert.Equal(t, "uploads-feature_login", FileCopyName("uploads", "feature_login"))
}

func TestSplitArtifact(t *testing.T) {
	databases := []string{"app", "app-analytics"}

	db, name, ok := SplitArtifact("app-main.dump", databases)
	assert.True(t, ok)
	assert.Equal(t, "app", db)
	assert.Equal(t, "main", name)

	// the longer database name wins when both prefixes match
	db, name, ok = SplitArtifact("app-analytics-main.dump", databases)
	assert.True(t, ok)
	assert.Equal(t, "app-analytics", db)
	assert.Equal(t, "main", name)

	_, _, ok = SplitArtifact("unknown-main.dump", databases)
	assert.False(t, ok)
}
