// Package store provides the paste persistence layer.
//
// This package implements the Store interface for managing pastes, their
// content blocks, and attached file records.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (HA-capable)
package store

import (
	"context"
	"time"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
)

// Store provides the paste persistence interface.
//
// Thread Safety: Implementations must be safe for concurrent use from
// multiple goroutines. All multi-row operations (block replacement, cascaded
// deletes) are atomic: they either fully apply or leave the database
// untouched.
type Store interface {
	// ============================================
	// PASTE OPERATIONS
	// ============================================

	// CreatePaste persists a new paste together with its blocks.
	// Returns models.ErrEmptyPaste if blocks are supplied but all are blank.
	// Returns models.ErrCustomURLTaken if the requested custom URL is in use.
	CreatePaste(ctx context.Context, paste *models.Paste, blocks []models.BlockInput) (*models.Paste, error)

	// GetPaste returns a paste by id or custom URL, with ordered blocks and
	// file records loaded.
	// Returns models.ErrPasteNotFound if the paste doesn't exist or expired.
	GetPaste(ctx context.Context, identifier string) (*models.Paste, error)

	// UpdatePaste atomically applies a partial update.
	// Returns models.ErrPasteNotFound if the paste doesn't exist or expired.
	// Returns models.ErrPasteNotEditable if the paste is locked.
	// Returns models.ErrEmptyPaste if a block update leaves no content.
	UpdatePaste(ctx context.Context, identifier string, upd PasteUpdate) (*models.Paste, error)

	// DeletePaste removes a paste with its blocks and file records.
	// The removed paste is returned with file records loaded.
	// Returns models.ErrPasteNotFound if the paste doesn't exist.
	DeletePaste(ctx context.Context, identifier string) (*models.Paste, error)

	// IncrementViews bumps the view counter for a paste by id.
	IncrementViews(ctx context.Context, id string) error

	// ListRecent returns the newest public, non-expired pastes.
	ListRecent(ctx context.Context, limit int) ([]*models.Paste, error)

	// CustomURLAvailable reports whether an alias is free to claim.
	CustomURLAvailable(ctx context.Context, alias string) (bool, error)

	// DeleteExpired removes every paste expired before now and returns the
	// orphaned file records together with the number of pastes removed.
	DeleteExpired(ctx context.Context, now time.Time) ([]models.File, int64, error)

	// ============================================
	// FILE OPERATIONS
	// ============================================

	// AddFile attaches a file record to an existing paste.
	AddFile(ctx context.Context, file *models.File) error

	// GetFile returns a file record by id.
	// Returns models.ErrFileNotFound if the record doesn't exist.
	GetFile(ctx context.Context, id string) (*models.File, error)

	// ============================================
	// LIFECYCLE
	// ============================================

	// Health verifies database connectivity.
	Health(ctx context.Context) error

	// Close releases the underlying database connection.
	Close() error
}
