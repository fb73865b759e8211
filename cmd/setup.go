package cmd

import (
	"fmt"
	"os"

	"github.com/fedy97/branch-db-state-switcher/internal/config"
	"github.com/fedy97/branch-db-state-switcher/internal/docker"
	"github.com/fedy97/branch-db-state-switcher/internal/git"
	"github.com/fedy97/branch-db-state-switcher/internal/snapshot"
	"github.com/fedy97/branch-db-state-switcher/pkg/models"
)

// newSnapshotManager wires the pieces every command needs: project config
// from the working directory, global config, runtime client, orchestrator.
// The returned cleanup closes the docker client.
func newSnapshotManager() (*snapshot.Manager, *models.ProjectConfig, func(), error) {
	cfg, err := config.LoadProject(config.ProjectConfigFile)
	if err != nil {
		return nil, nil, nil, err
	}

	globalCfg, err := config.NewManager()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load global config: %w", err)
	}

	dockerClient, err := docker.NewClient(globalCfg.GetConfig().Runtime)
	if err != nil {
		return nil, nil, nil, err
	}

	mgr := snapshot.NewManager(dockerClient, cfg)
	cleanup := func() { dockerClient.Close() }

	return mgr, cfg, cleanup, nil
}

// snapshotNameFromArgs resolves the snapshot name from the optional
// positional argument, falling back to the current git branch.
func snapshotNameFromArgs(args []string) (string, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		branch, err := git.CurrentBranch(cwd)
		if err != nil {
			return "", err
		}
		name = branch
	}

	name = snapshot.NormalizeName(name)
	if !snapshot.ValidName(name) {
		return "", fmt.Errorf("invalid snapshot name: %q", name)
	}
	return name, nil
}

func printResults(results []snapshot.Result, verb string) (failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %s: %v", r.Name, r.Err)))
			continue
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("  [done] %s %s", verb, r.Name)) +
			dimStyle.Render(fmt.Sprintf(" (%s)", r.Artifact)))
	}
	return failed
}
