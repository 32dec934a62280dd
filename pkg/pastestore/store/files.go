package store

import (
	"context"
	"time"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"

	"gorm.io/gorm"
)

// AddFile attaches a file record to an existing paste. The parent paste must
// exist; dangling records are rejected up front rather than left to foreign
// key enforcement, which SQLite may have disabled.
func (s *GORMStore) AddFile(ctx context.Context, file *models.File) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Paste{}).Where("id = ?", file.PasteID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.ErrPasteNotFound
		}
		return tx.Create(file).Error
	})
}
