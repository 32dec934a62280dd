package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

// FileHandler serves attachment downloads.
type FileHandler struct {
	store   store.Store
	uploads upload.Storage
}

// NewFileHandler creates a file handler.
func NewFileHandler(s store.Store, uploads upload.Storage) *FileHandler {
	return &FileHandler{store: s, uploads: uploads}
}

// Download handles GET /files/{id}. The payload streams with the MIME type
// sniffed at upload time, never the client-declared one.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")

	record, err := h.store.GetFile(r.Context(), fileID)
	if errors.Is(err, models.ErrFileNotFound) {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error fetching file", err)
		return
	}

	// The parent paste may have expired between sweeps
	if _, err := h.store.GetPaste(r.Context(), record.PasteID); errors.Is(err, models.ErrPasteNotFound) {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}

	rc, err := h.uploads.Get(r.Context(), record.StorageKey)
	if errors.Is(err, upload.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error fetching file", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", record.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(record.Size, 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", record.OriginalName))
	_, _ = io.Copy(w, rc)
}
