// Package datasheet renders product datasheets to PDF and caches them on disk.
package datasheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one PDF per product code under dir. Artifacts are written
// once and served verbatim afterwards.
type FileStore struct {
	dir string
}

// NewFileStore creates dir (and parents) when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("datasheet: create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path is the artifact location for a normalised code.
func (s *FileStore) Path(code string) string {
	return filepath.Join(s.dir, code+".pdf")
}

// Read returns the artifact for code. ok is false when none exists.
func (s *FileStore) Read(code string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(s.Path(code))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("datasheet: read %s: %w", code, err)
	}
	return data, true, nil
}

// Write stores data for code via a synced temp file renamed into place, so
// readers see either the previous artifact or the complete new one.
func (s *FileStore) Write(code string, data []byte) (err error) {
	tmp, err := os.CreateTemp(s.dir, "."+code+"-*.tmp")
	if err != nil {
		return fmt.Errorf("datasheet: temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("datasheet: write %s: %w", code, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("datasheet: sync %s: %w", code, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("datasheet: close %s: %w", code, err)
	}
	if err = os.Rename(tmp.Name(), s.Path(code)); err != nil {
		return fmt.Errorf("datasheet: rename %s: %w", code, err)
	}
	return nil
}
