package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// File stores one file per key under a private directory. Writes go through a
// temporary file and a rename so readers never see partial values.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile creates the storage directory if needed. An empty dir defaults to
// ~/.config/sazito/storage.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "sazito", "storage")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key))
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, wrap("get", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return wrap("set", key, writeAtomic(f.path(key), []byte(value)))
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return wrap("remove", key, err)
	}
	return nil
}

// Dir returns the storage directory.
func (f *File) Dir() string {
	return f.dir
}

// writeAtomic writes through a uniquely named temp file in the target
// directory, so concurrent writers never share one.
func writeAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".write-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(b); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err == nil {
		return nil
	}

	if runtime.GOOS == "windows" {
		_ = os.Remove(path)
	}
	return os.Rename(tmpPath, path)
}

var _ Storage = (*File)(nil)
