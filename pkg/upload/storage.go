// Package upload stores paste file attachments.
//
// Two backends are supported:
//   - Filesystem (single-node, default)
//   - S3 or S3-compatible object storage
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxFileSize is the largest attachment accepted, in bytes.
const MaxFileSize = 10 << 20 // 10 MiB

var (
	// ErrFileTooLarge is returned when an attachment exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrUnsupportedType is returned when the sniffed content type is not
	// in the allowlist.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNotFound is returned when a stored object does not exist.
	ErrNotFound = errors.New("stored file not found")
)

// Storage persists attachment payloads under opaque keys.
//
// Keys are chosen by the caller (typically "<pasteID>/<fileID>") and must not
// contain "..". Implementations must be safe for concurrent use.
type Storage interface {
	// Put writes the payload under key, replacing any previous object.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Get opens the payload stored under key.
	// Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the payload stored under key. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, key string) error
}

// BackendType identifies a storage backend.
type BackendType string

const (
	BackendFilesystem BackendType = "filesystem"
	BackendS3         BackendType = "s3"
)

// Config selects and configures the attachment backend.
type Config struct {
	Backend    BackendType      `yaml:"backend" mapstructure:"backend"`
	Filesystem FilesystemConfig `yaml:"filesystem" mapstructure:"filesystem"`
	S3         S3Config         `yaml:"s3" mapstructure:"s3"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	c.Filesystem.ApplyDefaults()
}

// New creates the configured storage backend.
func New(ctx context.Context, cfg *Config) (Storage, error) {
	cfg.ApplyDefaults()

	switch cfg.Backend {
	case BackendFilesystem:
		return NewFilesystemStorage(cfg.Filesystem)
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported upload backend: %s", cfg.Backend)
	}
}
