package snapshot

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/lucsky/cuid"
)

// BackupDir is the fixed snapshot directory inside the container.
const BackupDir = "/var/lib/postgresql/snapshots"

const artifactExt = ".dump"

// NormalizeName turns a branch name into a snapshot name. Branch names
// routinely contain slashes (feature/foo) which cannot appear in a
// filename.
func NormalizeName(branch string) string {
	return strings.ReplaceAll(strings.TrimSpace(branch), "/", "_")
}

// ValidName reports whether name is usable as a snapshot name after
// normalization.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "/\\ ")
}

// ArtifactName builds the per-database artifact filename.
func ArtifactName(database, name string) string {
	return fmt.Sprintf("%s-%s%s", database, name, artifactExt)
}

// ArtifactPath is the in-container location of an artifact. Container
// paths are always slash separated regardless of the host platform.
func ArtifactPath(database, name string) string {
	return path.Join(BackupDir, ArtifactName(database, name))
}

// SafetyArtifactName builds a unique filename for the pre-restore safety
// dump of a database.
func SafetyArtifactName(database string) string {
	return fmt.Sprintf("%s-safety-%s-%s%s",
		database, time.Now().Format("20060102-150405"), cuid.Slug(), artifactExt)
}

// FileCopyName is the snapshot copy of an auxiliary file.
func FileCopyName(file, name string) string {
	return fmt.Sprintf("%s-%s", file, name)
}

// SplitArtifact matches an artifact filename against the configured
// database names and returns the database and snapshot parts. The longest
// matching database wins because both parts may themselves contain dashes.
func SplitArtifact(artifact string, databases []string) (database, name string, ok bool) {
	trimmed := strings.TrimSuffix(artifact, artifactExt)
	for _, db := range databases {
		if strings.HasPrefix(trimmed, db+"-") && len(db) > len(database) {
			database = db
			name = strings.TrimPrefix(trimmed, db+"-")
			ok = true
		}
	}
	return database, name, ok
}
