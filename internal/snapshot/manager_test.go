package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fedy97/branch-db-state-switcher/internal/docker"
	"github.com/fedy97/branch-db-state-switcher/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every in-container command and answers via the
// configurable hooks.
type fakeRunner struct {
	status    string
	execs     [][]string
	respond   func(cmd []string) docker.ExecResult
	streamOut func(cmd []string, stdout io.Writer) error
	streamIn  func(cmd []string, stdin io.Reader) error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{status: "running"}
}

func (f *fakeRunner) ContainerStatus(containerID string) (string, error) {
	return f.status, nil
}

func (f *fakeRunner) Exec(containerID string, cmd []string, env []string) (docker.ExecResult, error) {
	f.execs = append(f.execs, cmd)
	if f.respond != nil {
		return f.respond(cmd), nil
	}
	return docker.ExecResult{}, nil
}

func (f *fakeRunner) ExecStreamOut(containerID string, cmd []string, env []string, stdout io.Writer) error {
	f.execs = append(f.execs, cmd)
	if f.streamOut != nil {
		return f.streamOut(cmd, stdout)
	}
	_, err := stdout.Write([]byte("dump data"))
	return err
}

func (f *fakeRunner) ExecStreamIn(containerID string, cmd []string, env []string, stdin io.Reader) error {
	f.execs = append(f.execs, cmd)
	if f.streamIn != nil {
		return f.streamIn(cmd, stdin)
	}
	_, err := io.Copy(io.Discard, stdin)
	return err
}

// commands returns the program names of every recorded exec.
func (f *fakeRunner) commands() []string {
	var names []string
	for _, cmd := range f.execs {
		names = append(names, cmd[0])
	}
	return names
}

func testConfig() *models.ProjectConfig {
	return &models.ProjectConfig{
		Container:   "pg-dev",
		Databases:   []string{"app", "analytics"},
		User:        "postgres",
		Password:    "secret",
		SafeRestore: true,
	}
}

func TestCheckTarget(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	require.NoError(t, mgr.CheckTarget())
	assert.Equal(t, []string{"pg_isready"}, runner.commands())
}

func TestCheckTargetContainerNotRunning(t *testing.T) {
	runner := newFakeRunner()
	runner.status = "exited"
	mgr := NewManager(runner, testConfig())

	err := mgr.CheckTarget()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
	assert.Empty(t, runner.execs)
}

func TestCheckTargetContainerMissing(t *testing.T) {
	runner := newFakeRunner()
	runner.status = "not found"
	mgr := NewManager(runner, testConfig())

	err := mgr.CheckTarget()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckTargetDatabaseUnreachable(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		return docker.ExecResult{ExitCode: 2, Stderr: "no response"}
	}
	mgr := NewManager(runner, testConfig())

	err := mgr.CheckTarget()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accepting connections")
}

func TestListIsReadOnly(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		return docker.ExecResult{Stdout: "app-main.dump\nanalytics-main.dump\n"}
	}
	mgr := NewManager(runner, testConfig())

	artifacts, err := mgr.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"app-main.dump", "analytics-main.dump"}, artifacts)

	// a listing must never issue anything but the read
	assert.Equal(t, []string{"ls"}, runner.commands())
}

func TestListMissingDirectoryMeansEmpty(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		return docker.ExecResult{ExitCode: 2, Stderr: "ls: " + BackupDir + ": No such file or directory"}
	}
	mgr := NewManager(runner, testConfig())

	artifacts, err := mgr.List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestBackupDumpsEveryDatabase(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Backup("main")
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, []string{"mkdir", "pg_dump", "pg_dump"}, runner.commands())
	assert.Contains(t, runner.execs[1], ArtifactPath("app", "main"))
	assert.Contains(t, runner.execs[2], ArtifactPath("analytics", "main"))
}

func TestBackupContinuesPastFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		if cmd[0] == "pg_dump" && contains(cmd, "app") {
			return docker.ExecResult{ExitCode: 1, Stderr: "connection refused"}
		}
		return docker.ExecResult{}
	}
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Backup("main")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []string{"mkdir", "pg_dump", "pg_dump"}, runner.commands())
}

func TestRestoreMissingArtifactFailsWithoutMutation(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		if cmd[0] == "test" {
			return docker.ExecResult{ExitCode: 1}
		}
		return docker.ExecResult{}
	}
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Restore("gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, results)

	// only the existence probe may have run
	for _, name := range runner.commands() {
		assert.Equal(t, "test", name)
	}
}

func TestRestoreSequencePerDatabase(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Restore("main")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}

	assert.Equal(t, []string{
		"test", "test", // artifact checks first, for all databases
		"pg_dump", // safety snapshot of app
		"psql", "pg_restore", "psql",
		"pg_dump", // safety snapshot of analytics
		"psql", "pg_restore", "psql",
	}, runner.commands())
}

func TestRestoreSafetySnapshotPrecedesDestruction(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	_, err := mgr.Restore("main")
	require.NoError(t, err)

	names := runner.commands()
	firstDump := indexOf(names, "pg_dump")
	firstPsql := indexOf(names, "psql")
	require.GreaterOrEqual(t, firstDump, 0)
	require.GreaterOrEqual(t, firstPsql, 0)
	assert.Less(t, firstDump, firstPsql)
}

func TestRestoreWithoutSafeModeTakesNoSafetySnapshot(t *testing.T) {
	cfg := testConfig()
	cfg.SafeRestore = false

	runner := newFakeRunner()
	mgr := NewManager(runner, cfg)

	_, err := mgr.Restore("main")
	require.NoError(t, err)
	assert.NotContains(t, runner.commands(), "pg_dump")
}

func TestRestoreAbortsOnSafetyFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		if cmd[0] == "pg_dump" {
			return docker.ExecResult{ExitCode: 1, Stderr: "disk full"}
		}
		return docker.ExecResult{}
	}
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Restore("main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safety backup")
	assert.Empty(t, results)

	// no destructive command may have run
	assert.NotContains(t, runner.commands(), "psql")
	assert.NotContains(t, runner.commands(), "pg_restore")
}

func TestRestoreContinuesPastFailedLoad(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		if cmd[0] == "pg_restore" && contains(cmd, "app") {
			return docker.ExecResult{ExitCode: 1, Stderr: "corrupt archive"}
		}
		return docker.ExecResult{}
	}
	mgr := NewManager(runner, testConfig())

	results, err := mgr.Restore("main")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestDeleteRemovesOneArtifactPerDatabase(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	results := mgr.Delete("main")
	require.Len(t, results, 2)

	assert.Equal(t, [][]string{
		{"rm", ArtifactPath("app", "main")},
		{"rm", ArtifactPath("analytics", "main")},
	}, runner.execs)
}

func TestDeleteReportsMissingArtifact(t *testing.T) {
	runner := newFakeRunner()
	runner.respond = func(cmd []string) docker.ExecResult {
		if contains(cmd, ArtifactPath("app", "main")) {
			return docker.ExecResult{ExitCode: 1, Stderr: "rm: cannot remove"}
		}
		return docker.ExecResult{}
	}
	mgr := NewManager(runner, testConfig())

	results := mgr.Delete("main")
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestDeleteAllRemovesBackupDirectory(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	require.NoError(t, mgr.DeleteAll())
	assert.Equal(t, [][]string{{"rm", "-rf", BackupDir}}, runner.execs)
}

func TestBackupLocalWritesDumpFiles(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig()
	cfg.Files = []string{".env"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KEY=value\n"), 0644))

	runner := newFakeRunner()
	mgr := NewManager(runner, cfg)

	results := mgr.BackupLocal("main", dir)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app-main.dump"))
	require.NoError(t, err)
	assert.Equal(t, "dump data", string(data))

	copied, err := os.ReadFile(filepath.Join(dir, ".env-main"))
	require.NoError(t, err)
	assert.Equal(t, "KEY=value\n", string(copied))
}

func TestBackupLocalRemovesPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()

	runner := newFakeRunner()
	runner.streamOut = func(cmd []string, stdout io.Writer) error {
		stdout.Write([]byte("partial"))
		return fmt.Errorf("command exited with code 1: connection refused")
	}
	mgr := NewManager(runner, testConfig())

	results := mgr.BackupLocal("main", dir)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
	}

	_, err := os.Stat(filepath.Join(dir, "app-main.dump"))
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreLocalMissingArtifactFailsWithoutMutation(t *testing.T) {
	dir := t.TempDir()

	runner := newFakeRunner()
	mgr := NewManager(runner, testConfig())

	_, err := mgr.RestoreLocal("gone", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, runner.execs)
}

func TestRestoreLocalSequence(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig()
	cfg.SafeRestore = false
	cfg.Files = []string{".env"}

	for _, db := range cfg.Databases {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ArtifactName(db, "main")), []byte("dump"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env-main"), []byte("KEY=restored\n"), 0644))

	var restoredInput string
	runner := newFakeRunner()
	runner.streamIn = func(cmd []string, stdin io.Reader) error {
		data, err := io.ReadAll(stdin)
		restoredInput = string(data)
		return err
	}
	mgr := NewManager(runner, cfg)

	results, err := mgr.RestoreLocal("main", dir)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}

	// drop, create, load, reset per database
	assert.Equal(t, []string{
		"psql", "psql", "pg_restore", "psql",
		"psql", "psql", "pg_restore", "psql",
	}, runner.commands())
	assert.Equal(t, "dump", restoredInput)

	env, rerr := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, rerr)
	assert.Equal(t, "KEY=restored\n", string(env))
}

func TestRestoreLocalSafetySnapshotWrittenLocally(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig()
	for _, db := range cfg.Databases {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ArtifactName(db, "main")), []byte("dump"), 0644))
	}

	runner := newFakeRunner()
	mgr := NewManager(runner, cfg)

	results, err := mgr.RestoreLocal("main", dir)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var safety int
	for _, e := range entries {
		if strings.Contains(e.Name(), "-safety-") {
			safety++
		}
	}
	assert.Equal(t, len(cfg.Databases), safety)
}

func contains(cmd []string, arg string) bool {
	for _, c := range cmd {
		if c == arg || strings.Contains(c, arg) {
			return true
		}
	}
	return false
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return -1
}
