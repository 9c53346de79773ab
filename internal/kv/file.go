package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/taskboard/internal/filelock"
)

const (
	fileMode     = 0o600
	dirMode      = 0o750
	lockFileName = ".lock"
)

// FileStore keeps one file per entry inside a directory. Writes go through a
// temporary file and a rename under an advisory lock, so readers never see a
// partially written entry.
type FileStore struct {
	dir   string
	quota int64
}

// NewFileStore creates the directory if needed. quota <= 0 means unlimited;
// otherwise the combined size of all entries may not exceed quota bytes.
func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir, quota: quota}, nil
}

// Dir returns the directory holding the entry files.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file path of an entry.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key)) //nolint:gosec // key validated above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading entry %q: %w", key, err)
	}
	return data, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return filelock.With(filepath.Join(s.dir, lockFileName), func() error {
		if err := s.checkQuota(key, int64(len(value))); err != nil {
			return err
		}
		return s.writeAtomic(key, value)
	})
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return filelock.With(filepath.Join(s.dir, lockFileName), func() error {
		if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing entry %q: %w", key, err)
		}
		return nil
	})
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) checkQuota(key string, size int64) error {
	if s.quota <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading store directory: %w", err)
	}
	used := size
	for _, e := range entries {
		if e.IsDir() || e.Name() == key || ValidateKey(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	if used > s.quota {
		return fmt.Errorf("writing %q (%d/%d bytes): %w", key, used, s.quota, ErrQuotaExceeded)
	}
	return nil
}

func (s *FileStore) writeAtomic(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing entry %q: %w", key, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode on entry %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing entry %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		return fmt.Errorf("replacing entry %q: %w", key, err)
	}
	return nil
}
