package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
)

// PasteUpdate is a partial update payload for a paste. Nil fields are left
// untouched. A non-empty Blocks sequence switches the paste to the blocked
// representation; otherwise a non-nil Content switches it to flat.
type PasteUpdate struct {
	Title   *string
	Content *string
	Blocks  []models.BlockInput
}

// blockOrder is the ORDER BY clause for block listing. The column is named
// "order", which is an SQL keyword, so it goes through clause quoting.
func blockOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
}

// findByIdentifier resolves a paste by id or custom URL within tx.
func findByIdentifier(tx *gorm.DB, identifier string, paste *models.Paste) error {
	err := tx.Where("id = ? OR custom_url = ?", identifier, identifier).First(paste).Error
	return convertNotFoundError(err, models.ErrPasteNotFound)
}

// CreatePaste persists a new paste together with its blocks and file records
// in one transaction.
//
// When blocks are supplied they are normalized (blank entries dropped, dense
// order assigned); if none survive the transaction is aborted with
// ErrEmptyPaste. A requested custom URL is validated against the alias
// grammar and the reserved-word set before any write.
func (s *GORMStore) CreatePaste(ctx context.Context, paste *models.Paste, blocks []models.BlockInput) (*models.Paste, error) {
	if paste.CustomURL != nil {
		if err := models.ValidateCustomURL(*paste.CustomURL); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	paste.CreatedAt = now
	paste.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(blocks) > 0 {
			kept := models.NormalizeBlocks(blocks)
			if len(kept) == 0 {
				return models.ErrEmptyPaste
			}
			paste.IsJupyterStyle = true
			paste.Content = ""
			for i := range kept {
				kept[i].PasteID = paste.ID
			}
			paste.Blocks = kept
		} else {
			paste.IsJupyterStyle = false
		}

		if err := tx.Create(paste).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrCustomURLTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPaste(ctx, paste.ID)
}

// GetPaste resolves a paste by id or custom URL, with blocks (ordered) and
// file records loaded. Expired pastes are reported as not found.
func (s *GORMStore) GetPaste(ctx context.Context, identifier string) (*models.Paste, error) {
	var paste models.Paste
	err := s.db.WithContext(ctx).
		Preload("Blocks", blockOrder).
		Preload("Files").
		Where("id = ? OR custom_url = ?", identifier, identifier).
		First(&paste).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrPasteNotFound)
	}

	if paste.Expired(time.Now()) {
		return nil, models.ErrPasteNotFound
	}

	return &paste, nil
}

// IncrementViews bumps the view counter for a paste. The counter is
// monotonically non-decreasing; the increment happens in the database so
// concurrent reads never lose updates.
func (s *GORMStore) IncrementViews(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrPasteNotFound
	}
	return nil
}

// ListRecent returns the newest public, non-expired pastes.
func (s *GORMStore) ListRecent(ctx context.Context, limit int) ([]*models.Paste, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var pastes []*models.Paste
	err := s.db.WithContext(ctx).
		Preload("Blocks", blockOrder).
		Where("is_private = ?", false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&pastes).Error
	if err != nil {
		return nil, err
	}
	return pastes, nil
}

// UpdatePaste atomically applies a partial update to a paste.
//
// Preconditions (checked inside the transaction, before any write): the paste
// must exist, must not be expired, and must be editable.
//
// A non-empty Blocks sequence replaces all existing blocks wholesale: blank
// entries are dropped, survivors get dense zero-based order. If none survive,
// the whole transaction rolls back with ErrEmptyPaste and the paste is left
// exactly as it was. Otherwise, when Content is set the paste switches to the
// flat representation and any stray blocks are removed. The stored
// isJupyterStyle flag is rewritten together with the branch so the two
// representations stay mutually exclusive.
func (s *GORMStore) UpdatePaste(ctx context.Context, identifier string, upd PasteUpdate) (*models.Paste, error) {
	var pasteID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paste models.Paste
		if err := findByIdentifier(tx, identifier, &paste); err != nil {
			return err
		}
		if paste.Expired(time.Now()) {
			// Expired pastes are gone, not a distinct error kind
			return models.ErrPasteNotFound
		}
		if !paste.IsEditable {
			return models.ErrPasteNotEditable
		}
		pasteID = paste.ID

		if upd.Title != nil {
			paste.Title = *upd.Title
		}

		switch {
		case len(upd.Blocks) > 0:
			kept := models.NormalizeBlocks(upd.Blocks)
			if len(kept) == 0 {
				return models.ErrEmptyPaste
			}

			if err := tx.Where("paste_id = ?", paste.ID).Delete(&models.Block{}).Error; err != nil {
				return err
			}
			for i := range kept {
				kept[i].PasteID = paste.ID
				if err := tx.Create(&kept[i]).Error; err != nil {
					return err
				}
			}

			paste.Content = ""
			paste.IsJupyterStyle = true

		case upd.Content != nil:
			if err := tx.Where("paste_id = ?", paste.ID).Delete(&models.Block{}).Error; err != nil {
				return err
			}
			paste.Content = *upd.Content
			paste.IsJupyterStyle = false
		}

		paste.UpdatedAt = time.Now()

		return tx.Model(&models.Paste{}).
			Where("id = ?", paste.ID).
			Updates(map[string]any{
				"title":            paste.Title,
				"content":          paste.Content,
				"is_jupyter_style": paste.IsJupyterStyle,
				"updated_at":       paste.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetPaste(ctx, pasteID)
}

// DeletePaste removes a paste and its blocks and file records in one
// transaction. The removed paste is returned with its file records loaded so
// the caller can clean up stored payloads.
func (s *GORMStore) DeletePaste(ctx context.Context, identifier string) (*models.Paste, error) {
	var paste models.Paste

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Files").
			Where("id = ? OR custom_url = ?", identifier, identifier).
			First(&paste).Error; err != nil {
			return convertNotFoundError(err, models.ErrPasteNotFound)
		}

		if err := tx.Where("paste_id = ?", paste.ID).Delete(&models.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paste_id = ?", paste.ID).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Paste{}, "id = ?", paste.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &paste, nil
}

// DeleteExpired removes every paste whose expiry is before now, cascading
// blocks and file records. The removed file records are returned so stored
// payloads can be cleaned up best-effort.
func (s *GORMStore) DeleteExpired(ctx context.Context, now time.Time) ([]models.File, int64, error) {
	var files []models.File
	var removed int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []models.Paste
		if err := tx.Where("expires_at IS NOT NULL AND expires_at < ?", now).Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]string, len(expired))
		for i, p := range expired {
			ids[i] = p.ID
		}

		if err := tx.Where("paste_id IN ?", ids).Find(&files).Error; err != nil {
			return err
		}
		if err := tx.Where("paste_id IN ?", ids).Delete(&models.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paste_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Paste{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return nil, 0, err
	}

	return files, removed, nil
}

// CustomURLAvailable reports whether an alias is free to claim. Aliases that
// fail validation (bad shape or reserved) are reported as unavailable rather
// than as errors.
func (s *GORMStore) CustomURLAvailable(ctx context.Context, alias string) (bool, error) {
	if alias == "" {
		return false, nil
	}
	if err := models.ValidateCustomURL(alias); err != nil {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Paste{}).
		Where("custom_url = ? OR id = ?", alias, alias).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// GetFile returns a file record by id.
func (s *GORMStore) GetFile(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrFileNotFound)
	}
	return &file, nil
}
