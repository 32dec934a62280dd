// Package janitor removes expired pastes in the background.
package janitor

import (
	"context"
	"time"

	"github.com/pasteshare/pasteshare/internal/logger"
	"github.com/pasteshare/pasteshare/pkg/metrics"
	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

// DefaultInterval is how often the janitor sweeps when unconfigured.
const DefaultInterval = 5 * time.Minute

// ExpiredDeleter is the slice of the paste store the janitor needs.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) ([]models.File, int64, error)
}

// Janitor periodically deletes expired pastes and their stored attachments.
type Janitor struct {
	store    ExpiredDeleter
	uploads  upload.Storage
	metrics  *metrics.PasteMetrics
	interval time.Duration
}

// New creates a janitor. A nil metrics collector disables instrumentation.
func New(s ExpiredDeleter, uploads upload.Storage, m *metrics.PasteMetrics, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Janitor{
		store:    s,
		uploads:  uploads,
		metrics:  m,
		interval: interval,
	}
}

// Run sweeps on a ticker until ctx is cancelled. It blocks; run it in its
// own goroutine.
func (j *Janitor) Run(ctx context.Context) {
	logger.Info("Janitor started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Janitor stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes everything expired right now. Attachment payloads are
// removed best-effort after the database rows are gone; a failed payload
// delete is logged and skipped, never retried.
func (j *Janitor) Sweep(ctx context.Context) {
	files, removed, err := j.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to delete expired pastes", "error", err)
		return
	}
	if removed == 0 {
		return
	}

	for _, f := range files {
		if err := j.uploads.Delete(ctx, f.StorageKey); err != nil {
			logger.Warn("Failed to delete attachment payload",
				"file_id", f.ID,
				"key", f.StorageKey,
				"error", err)
		}
	}

	j.metrics.RecordPasteDeleted("expired", removed)
	logger.Info("Removed expired pastes", "count", removed, "files", len(files))
}
