package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotFiles copies every configured auxiliary file to its snapshot
// copy inside dir. A missing source file is reported and skipped.
func (m *Manager) SnapshotFiles(name, dir string) []Result {
	var results []Result
	for _, file := range m.cfg.Files {
		r := Result{Name: file, Artifact: FileCopyName(filepath.Base(file), name)}

		src := file
		if !filepath.IsAbs(src) {
			src = filepath.Join(dir, file)
		}
		dst := filepath.Join(dir, r.Artifact)

		size, err := copyFile(src, dst)
		if err != nil {
			r.Err = fmt.Errorf("failed to snapshot file: %w", err)
		}
		r.SizeBytes = size
		results = append(results, r)
	}
	return results
}

// RestoreFiles copies auxiliary file snapshots back to their original
// locations.
func (m *Manager) RestoreFiles(name, dir string) []Result {
	var results []Result
	for _, file := range m.cfg.Files {
		r := Result{Name: file, Artifact: FileCopyName(filepath.Base(file), name)}

		src := filepath.Join(dir, r.Artifact)
		dst := file
		if !filepath.IsAbs(dst) {
			dst = filepath.Join(dir, file)
		}

		size, err := copyFile(src, dst)
		if err != nil {
			r.Err = fmt.Errorf("failed to restore file: %w", err)
		}
		r.SizeBytes = size
		results = append(results, r)
	}
	return results
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}

	return written, nil
}
