package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const headRefPrefix = "ref: refs/heads/"

// CurrentBranch returns the branch checked out in the repository that
// contains dir, walking up parent directories until a .git is found.
func CurrentBranch(dir string) (string, error) {
	gitDir, err := findGitDir(dir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("failed to read git HEAD: %w", err)
	}

	head := strings.TrimSpace(string(data))
	if !strings.HasPrefix(head, headRefPrefix) {
		return "", fmt.Errorf("detached HEAD, pass a snapshot name explicitly")
	}

	branch := strings.TrimPrefix(head, headRefPrefix)
	if branch == "" {
		return "", fmt.Errorf("could not determine current branch")
	}

	return branch, nil
}

func findGitDir(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	for {
		gitPath := filepath.Join(current, ".git")
		info, err := os.Stat(gitPath)
		if err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			// worktrees and submodules keep a pointer file instead
			return resolveGitFile(gitPath)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("not a git repository (searched from %s)", dir)
		}
		current = parent
	}
}

func resolveGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	line := strings.TrimSpace(string(data))
	const prefix = "gitdir: "
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("unrecognized .git file at %s", path)
	}

	gitDir := strings.TrimPrefix(line, prefix)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(filepath.Dir(path), gitDir)
	}

	return gitDir, nil
}
