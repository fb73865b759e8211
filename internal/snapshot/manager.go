package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fedy97/branch-db-state-switcher/internal/docker"
	"github.com/fedy97/branch-db-state-switcher/pkg/models"
)

// Runner abstracts the in-container command execution the orchestrator
// needs; *docker.Client satisfies it.
type Runner interface {
	ContainerStatus(containerID string) (string, error)
	Exec(containerID string, cmd []string, env []string) (docker.ExecResult, error)
	ExecStreamOut(containerID string, cmd []string, env []string, stdout io.Writer) error
	ExecStreamIn(containerID string, cmd []string, env []string, stdin io.Reader) error
}

// Result reports the outcome of one database (or auxiliary file) within a
// multi-target operation. A nil Err means success.
type Result struct {
	Name      string
	Artifact  string
	SizeBytes int64
	Err       error
}

type Manager struct {
	runner Runner
	cfg    *models.ProjectConfig
}

func NewManager(runner Runner, cfg *models.ProjectConfig) *Manager {
	return &Manager{
		runner: runner,
		cfg:    cfg,
	}
}

// CheckTarget verifies the container is running and the server inside it
// accepts connections.
func (m *Manager) CheckTarget() error {
	status, err := m.runner.ContainerStatus(m.cfg.Container)
	if err != nil {
		return fmt.Errorf("failed to reach container %s: %w", m.cfg.Container, err)
	}
	if status == "not found" {
		return fmt.Errorf("container %s not found", m.cfg.Container)
	}
	if status != "running" {
		return fmt.Errorf("container %s is not running (status: %s)", m.cfg.Container, status)
	}

	res, err := m.runner.Exec(m.cfg.Container, readyCmd(m.cfg.User), pgEnv(m.cfg.Password))
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if res.Failed() {
		return fmt.Errorf("database is not accepting connections: %s", res.Output())
	}

	return nil
}

// List enumerates artifact names in the in-container snapshot directory.
// A missing directory means no snapshots have been taken yet.
func (m *Manager) List() ([]string, error) {
	res, err := m.runner.Exec(m.cfg.Container, []string{"ls", "-1", BackupDir}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if res.Failed() {
		if strings.Contains(res.Stderr, "No such file") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %s", res.Output())
	}

	var artifacts []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			artifacts = append(artifacts, trimmed)
		}
	}
	return artifacts, nil
}

// Backup dumps every configured database to the in-container snapshot
// directory. A failing database is reported in its Result and does not
// stop the remaining ones.
func (m *Manager) Backup(name string) ([]Result, error) {
	res, err := m.runner.Exec(m.cfg.Container, []string{"mkdir", "-p", BackupDir}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if res.Failed() {
		return nil, fmt.Errorf("failed to create snapshot directory: %s", res.Output())
	}

	var results []Result
	for _, db := range m.cfg.Databases {
		results = append(results, m.backupOne(db, name))
	}
	return results, nil
}

func (m *Manager) backupOne(db, name string) Result {
	r := Result{Name: db, Artifact: ArtifactName(db, name)}

	res, err := m.runner.Exec(m.cfg.Container,
		dumpToFileCmd(m.cfg.User, db, ArtifactPath(db, name)), pgEnv(m.cfg.Password))
	if err != nil {
		r.Err = fmt.Errorf("dump failed: %w", err)
		return r
	}
	if res.Failed() {
		r.Err = fmt.Errorf("pg_dump failed: %s", res.Output())
	}
	return r
}

// BackupLocal streams a dump of every configured database into dir and
// snapshots the configured auxiliary files alongside them.
func (m *Manager) BackupLocal(name, dir string) []Result {
	var results []Result
	for _, db := range m.cfg.Databases {
		results = append(results, m.backupOneLocal(db, name, dir))
	}
	results = append(results, m.SnapshotFiles(name, dir)...)
	return results
}

func (m *Manager) backupOneLocal(db, name, dir string) Result {
	r := Result{Name: db, Artifact: ArtifactName(db, name)}
	target := filepath.Join(dir, r.Artifact)

	outFile, err := os.Create(target)
	if err != nil {
		r.Err = fmt.Errorf("failed to create dump file: %w", err)
		return r
	}

	err = m.runner.ExecStreamOut(m.cfg.Container,
		dumpToStdoutCmd(m.cfg.User, db), pgEnv(m.cfg.Password), outFile)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		r.Err = fmt.Errorf("pg_dump failed: %w", err)
		return r
	}

	if info, err := os.Stat(target); err == nil {
		r.SizeBytes = info.Size()
	}
	return r
}

// Restore loads the named snapshot into every configured database from
// the in-container snapshot directory.
//
// All artifacts are verified before anything is touched; a missing one is
// terminal for the run. With safe-restore enabled a safety dump precedes
// the destructive steps and its failure is also terminal. All tables are
// dropped before loading; constraint checks are re-enabled afterwards.
func (m *Manager) Restore(name string) ([]Result, error) {
	for _, db := range m.cfg.Databases {
		artifact := ArtifactPath(db, name)
		res, err := m.runner.Exec(m.cfg.Container, []string{"test", "-f", artifact}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check snapshot: %w", err)
		}
		if res.Failed() {
			return nil, fmt.Errorf("snapshot %q not found for database %s (expected %s)", name, db, artifact)
		}
	}

	var results []Result
	for _, db := range m.cfg.Databases {
		if m.cfg.SafeRestore {
			if err := m.safetyBackup(db); err != nil {
				return results, err
			}
		}
		results = append(results, m.restoreOne(db, name))
	}
	return results, nil
}

func (m *Manager) safetyBackup(db string) error {
	path := fmt.Sprintf("%s/%s", BackupDir, SafetyArtifactName(db))
	res, err := m.runner.Exec(m.cfg.Container,
		dumpToFileCmd(m.cfg.User, db, path), pgEnv(m.cfg.Password))
	if err != nil {
		return fmt.Errorf("safety backup of %s failed: %w", db, err)
	}
	if res.Failed() {
		return fmt.Errorf("safety backup of %s failed: %s", db, res.Output())
	}
	return nil
}

func (m *Manager) restoreOne(db, name string) Result {
	r := Result{Name: db, Artifact: ArtifactName(db, name)}

	res, err := m.runner.Exec(m.cfg.Container,
		dropTablesCmd(m.cfg.User, db), pgEnv(m.cfg.Password))
	if err != nil {
		r.Err = fmt.Errorf("failed to drop tables: %w", err)
		return r
	}
	if res.Failed() {
		r.Err = fmt.Errorf("failed to drop tables: %s", res.Output())
		return r
	}

	res, err = m.runner.Exec(m.cfg.Container,
		restoreFromFileCmd(m.cfg.User, db, ArtifactPath(db, name)), pgEnv(m.cfg.Password))
	if err != nil {
		r.Err = fmt.Errorf("pg_restore failed: %w", err)
	} else if res.Failed() {
		r.Err = fmt.Errorf("pg_restore failed: %s", res.Output())
	}

	// run even after a failed load so the session setting never sticks
	reset, rerr := m.runner.Exec(m.cfg.Container,
		resetConstraintsCmd(m.cfg.User, db), pgEnv(m.cfg.Password))
	if r.Err == nil {
		if rerr != nil {
			r.Err = fmt.Errorf("failed to re-enable constraints: %w", rerr)
		} else if reset.Failed() {
			r.Err = fmt.Errorf("failed to re-enable constraints: %s", reset.Output())
		}
	}

	return r
}

// RestoreLocal loads the named snapshot from dir into every configured
// database, recreating each database from scratch, then restores the
// auxiliary file snapshots.
func (m *Manager) RestoreLocal(name, dir string) ([]Result, error) {
	for _, db := range m.cfg.Databases {
		artifact := filepath.Join(dir, ArtifactName(db, name))
		if _, err := os.Stat(artifact); err != nil {
			return nil, fmt.Errorf("snapshot %q not found for database %s (expected %s)", name, db, artifact)
		}
	}

	var results []Result
	for _, db := range m.cfg.Databases {
		if m.cfg.SafeRestore {
			if err := m.safetyBackupLocal(db, dir); err != nil {
				return results, err
			}
		}
		results = append(results, m.restoreOneLocal(db, name, dir))
	}

	results = append(results, m.RestoreFiles(name, dir)...)
	return results, nil
}

func (m *Manager) safetyBackupLocal(db, dir string) error {
	target := filepath.Join(dir, SafetyArtifactName(db))

	outFile, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("safety backup of %s failed: %w", db, err)
	}

	err = m.runner.ExecStreamOut(m.cfg.Container,
		dumpToStdoutCmd(m.cfg.User, db), pgEnv(m.cfg.Password), outFile)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("safety backup of %s failed: %w", db, err)
	}

	return nil
}

func (m *Manager) restoreOneLocal(db, name, dir string) Result {
	r := Result{Name: db, Artifact: ArtifactName(db, name)}

	res, err := m.runner.Exec(m.cfg.Container,
		dropDatabaseCmd(m.cfg.User, db), pgEnv(m.cfg.Password))
	if err != nil {
		r.Err = fmt.Errorf("failed to drop database: %w", err)
		return r
	}
	if res.Failed() {
		r.Err = fmt.Errorf("failed to drop database: %s", res.Output())
		return r
	}

	res, err = m.runner.Exec(m.cfg.Container,
		createDatabaseCmd(m.cfg.User, db), pgEnv(m.cfg.Password))
	if err != nil {
		r.Err = fmt.Errorf("failed to create database: %w", err)
		return r
	}
	if res.Failed() {
		r.Err = fmt.Errorf("failed to create database: %s", res.Output())
		return r
	}

	artifact := filepath.Join(dir, r.Artifact)
	file, err := os.Open(artifact)
	if err != nil {
		r.Err = fmt.Errorf("failed to open snapshot: %w", err)
		return r
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		r.SizeBytes = info.Size()
	}

	if err := m.runner.ExecStreamIn(m.cfg.Container,
		restoreFromStdinCmd(m.cfg.User, db), pgEnv(m.cfg.Password), file); err != nil {
		r.Err = fmt.Errorf("pg_restore failed: %w", err)
	}

	reset, rerr := m.runner.Exec(m.cfg.Container,
		resetConstraintsCmd(m.cfg.User, db), pgEnv(m.cfg.Password))
	if r.Err == nil {
		if rerr != nil {
			r.Err = fmt.Errorf("failed to re-enable constraints: %w", rerr)
		} else if reset.Failed() {
			r.Err = fmt.Errorf("failed to re-enable constraints: %s", reset.Output())
		}
	}

	return r
}

// Delete removes the named artifact for every configured database.
func (m *Manager) Delete(name string) []Result {
	var results []Result
	for _, db := range m.cfg.Databases {
		r := Result{Name: db, Artifact: ArtifactName(db, name)}

		res, err := m.runner.Exec(m.cfg.Container,
			[]string{"rm", ArtifactPath(db, name)}, nil)
		if err != nil {
			r.Err = fmt.Errorf("failed to delete snapshot: %w", err)
		} else if res.Failed() {
			r.Err = fmt.Errorf("failed to delete snapshot: %s", res.Output())
		}

		results = append(results, r)
	}
	return results
}

// DeleteAll removes the entire in-container snapshot directory.
func (m *Manager) DeleteAll() error {
	res, err := m.runner.Exec(m.cfg.Container, []string{"rm", "-rf", BackupDir}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	if res.Failed() {
		return fmt.Errorf("failed to delete snapshots: %s", res.Output())
	}
	return nil
}
