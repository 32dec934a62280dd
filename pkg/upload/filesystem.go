package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemConfig configures the filesystem backend.
type FilesystemConfig struct {
	// Root is the directory payloads are stored under.
	Root string `yaml:"root" mapstructure:"root"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *FilesystemConfig) ApplyDefaults() {
	if c.Root == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err == nil {
				dataDir = filepath.Join(home, ".local", "share")
			}
		}
		c.Root = filepath.Join(dataDir, "pasteshare", "uploads")
	}
}

// FilesystemStorage stores payloads as files under a root directory.
type FilesystemStorage struct {
	root string
}

// NewFilesystemStorage creates the root directory if needed.
func NewFilesystemStorage(cfg FilesystemConfig) (*FilesystemStorage, error) {
	cfg.ApplyDefaults()

	if err := os.MkdirAll(cfg.Root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FilesystemStorage{root: cfg.Root}, nil
}

// path resolves a key to a path inside the root. Keys that would escape the
// root are rejected.
func (s *FilesystemStorage) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes the payload under key, replacing any previous object. The write
// goes through a temp file and rename so readers never observe a partial
// object.
func (s *FilesystemStorage) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, io.LimitReader(r, MaxFileSize+1)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write upload: %w", err)
	}

	info, err := tmp.Stat()
	if err == nil && info.Size() > MaxFileSize {
		tmp.Close()
		os.Remove(tmpName)
		return ErrFileTooLarge
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close upload: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize upload: %w", err)
	}
	return nil
}

// Get opens the payload stored under key.
func (s *FilesystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return f, nil
}

// Delete removes the payload stored under key.
func (s *FilesystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}
