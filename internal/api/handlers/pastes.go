package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/pasteshare/pasteshare/internal/id"
	"github.com/pasteshare/pasteshare/internal/logger"
	"github.com/pasteshare/pasteshare/internal/telemetry"
	"github.com/pasteshare/pasteshare/pkg/metrics"
	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

// multipartMemoryLimit caps how much of a multipart body is buffered in
// memory before spilling to disk.
const multipartMemoryLimit = 4 << 20 // 4 MiB

// sniffSize is how many payload bytes are read for content type detection.
const sniffSize = 3072

// PasteHandler serves the /api/pastes endpoints.
type PasteHandler struct {
	store   store.Store
	uploads upload.Storage
	ids     *id.Generator
	metrics *metrics.PasteMetrics
	baseURL string
}

// NewPasteHandler creates a paste handler. metrics may be nil.
func NewPasteHandler(s store.Store, uploads upload.Storage, ids *id.Generator, m *metrics.PasteMetrics, baseURL string) *PasteHandler {
	return &PasteHandler{
		store:   s,
		uploads: uploads,
		ids:     ids,
		metrics: m,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Create handles POST /api/pastes. The body is either JSON or multipart
// form data; the multipart path additionally accepts file attachments under
// the "files" field.
func (h *PasteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), "paste.create")
	defer span.End()
	r = r.WithContext(ctx)

	var req createPasteRequest
	var fileHeaders []*multipart.FileHeader

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}
		if !formToCreateRequest(w, r, &req) {
			return
		}
		if r.MultipartForm != nil {
			fileHeaders = r.MultipartForm.File["files"]
		}
	} else {
		if !decodeJSONBody(w, r, &req) {
			return
		}
	}

	if strings.TrimSpace(req.Content) == "" && len(req.Blocks) == 0 && len(fileHeaders) == 0 {
		writeMessage(w, http.StatusBadRequest, "No content to save")
		return
	}
	if req.ExpiresIn < 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid expiration")
		return
	}

	pasteID, err := h.ids.Generate(r.Context())
	if err != nil {
		writeServerError(w, "Server error creating paste", err)
		return
	}

	paste := &models.Paste{
		ID:         pasteID,
		Title:      req.Title,
		Content:    req.Content,
		IsPrivate:  req.IsPrivate,
		IsEditable: true,
	}
	if req.IsEditable != nil {
		paste.IsEditable = *req.IsEditable
	}
	if req.CustomURL != "" {
		alias := req.CustomURL
		paste.CustomURL = &alias
	}
	if req.ExpiresIn > 0 {
		expires := time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
		paste.ExpiresAt = &expires
	}
	if req.Password != "" {
		if err := models.ValidatePassword(req.Password); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := models.HashPassword(req.Password)
		if err != nil {
			writeServerError(w, "Server error creating paste", err)
			return
		}
		paste.PasswordHash = hash
	}

	created, err := h.store.CreatePaste(r.Context(), paste, req.Blocks)
	switch {
	case errors.Is(err, models.ErrEmptyPaste):
		writeMessage(w, http.StatusBadRequest, "No content to save")
		return
	case errors.Is(err, models.ErrCustomURLTaken),
		errors.Is(err, models.ErrReservedCustomURL):
		writeMessage(w, http.StatusConflict, "This custom URL is already taken")
		return
	case errors.Is(err, models.ErrInvalidCustomURL):
		writeMessage(w, http.StatusBadRequest, "Invalid custom URL")
		return
	case err != nil:
		writeServerError(w, "Server error creating paste", err)
		return
	}

	for _, header := range fileHeaders {
		if err := h.saveAttachment(r, created.ID, header); err != nil {
			logger.Warn("Skipping attachment",
				"paste_id", created.ID,
				"file", header.Filename,
				"error", err)
		}
	}

	// Reload so the response carries the attachment records
	if len(fileHeaders) > 0 {
		if reloaded, err := h.store.GetPaste(r.Context(), created.ID); err == nil {
			created = reloaded
		}
	}

	style := "flat"
	if created.HasBlocks() {
		style = "blocks"
	}
	h.metrics.RecordPasteCreated(style)

	WriteJSON(w, http.StatusCreated, struct {
		Message string         `json:"message"`
		Paste   *PasteResponse `json:"paste"`
	}{
		Message: "Paste created successfully",
		Paste:   newPasteResponse(created, true),
	})
}

// saveAttachment sniffs, validates and stores one uploaded file, then
// records it on the paste.
func (h *PasteHandler) saveAttachment(r *http.Request, pasteID string, header *multipart.FileHeader) error {
	if header.Size > upload.MaxFileSize {
		return upload.ErrFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mime := upload.DetectContentType(head)
	if !upload.AllowedContentType(mime) {
		return fmt.Errorf("%w: %s", upload.ErrUnsupportedType, mime)
	}

	fileID := uuid.New().String()
	key := pasteID + "/" + fileID

	body := io.MultiReader(bytes.NewReader(head), f)
	if err := h.uploads.Put(r.Context(), key, body, header.Size); err != nil {
		return err
	}

	record := &models.File{
		ID:           fileID,
		PasteID:      pasteID,
		OriginalName: header.Filename,
		StorageKey:   key,
		MimeType:     mime,
		Size:         header.Size,
	}
	if err := h.store.AddFile(r.Context(), record); err != nil {
		// The payload is orphaned without its record; clean it up
		_ = h.uploads.Delete(r.Context(), key)
		return err
	}

	h.metrics.RecordUploadBytes(header.Size)
	return nil
}

// formToCreateRequest maps multipart form values onto the create request.
func formToCreateRequest(w http.ResponseWriter, r *http.Request, req *createPasteRequest) bool {
	req.Title = r.FormValue("title")
	req.Content = r.FormValue("content")
	req.CustomURL = r.FormValue("customUrl")
	req.Password = r.FormValue("password")
	req.IsPrivate = r.FormValue("isPrivate") == "true"

	if v := r.FormValue("isEditable"); v != "" {
		editable := v == "true"
		req.IsEditable = &editable
	}
	if v := r.FormValue("expiresIn"); v != "" {
		seconds, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid expiration")
			return false
		}
		req.ExpiresIn = seconds
	}
	if v := r.FormValue("blocks"); v != "" {
		quoted := strconv.Quote(v)
		if err := req.Blocks.UnmarshalJSON([]byte(quoted)); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid blocks payload")
			return false
		}
	}
	return true
}

// Get handles GET /api/pastes/{identifier}. Password-protected pastes
// withhold their content until the password is verified through Verify.
func (h *PasteHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	paste, err := h.store.GetPaste(r.Context(), identifier)
	if errors.Is(err, models.ErrPasteNotFound) {
		writeMessage(w, http.StatusNotFound, "Paste not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error fetching paste", err)
		return
	}

	if paste.PasswordProtected() {
		WriteJSON(w, http.StatusOK, struct {
			Paste *PasteResponse `json:"paste"`
		}{newPasteResponse(paste, false)})
		return
	}

	if err := h.store.IncrementViews(r.Context(), paste.ID); err != nil {
		logger.Warn("Failed to count view", "paste_id", paste.ID, "error", err)
	} else {
		paste.Views++
	}
	h.metrics.RecordPasteViewed()

	WriteJSON(w, http.StatusOK, struct {
		Paste *PasteResponse `json:"paste"`
	}{newPasteResponse(paste, true)})
}

// Verify handles POST /api/pastes/{identifier}/verify and returns the full
// paste on a correct password.
func (h *PasteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var req verifyPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	paste, err := h.store.GetPaste(r.Context(), identifier)
	if errors.Is(err, models.ErrPasteNotFound) {
		writeMessage(w, http.StatusNotFound, "Paste not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error fetching paste", err)
		return
	}

	if !paste.PasswordProtected() {
		writeMessage(w, http.StatusBadRequest, "Paste is not password protected")
		return
	}
	if !models.VerifyPassword(req.Password, paste.PasswordHash) {
		writeMessage(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := h.store.IncrementViews(r.Context(), paste.ID); err != nil {
		logger.Warn("Failed to count view", "paste_id", paste.ID, "error", err)
	} else {
		paste.Views++
	}
	h.metrics.RecordPasteViewed()

	WriteJSON(w, http.StatusOK, struct {
		Message string         `json:"message"`
		Paste   *PasteResponse `json:"paste"`
	}{
		Message: "Password verified",
		Paste:   newPasteResponse(paste, true),
	})
}

// Update handles PUT /api/pastes/{identifier}.
//
// The whole update is a single store transaction. A block list replaces the
// previous blocks wholesale; if every supplied block is blank the update is
// rejected and the paste is left untouched.
func (h *PasteHandler) Update(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	ctx, span := telemetry.StartSpan(r.Context(), "paste.update")
	defer span.End()
	telemetry.SetAttributes(ctx, telemetry.PasteID(identifier))

	var req updatePasteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	updated, err := h.store.UpdatePaste(ctx, identifier, store.PasteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Blocks:  req.Blocks,
	})
	switch {
	case errors.Is(err, models.ErrPasteNotFound):
		writeMessage(w, http.StatusNotFound, "Paste not found")
		return
	case errors.Is(err, models.ErrPasteNotEditable):
		writeMessage(w, http.StatusForbidden, "This paste is not editable")
		return
	case errors.Is(err, models.ErrEmptyPaste):
		writeMessage(w, http.StatusBadRequest, "No content to save")
		return
	case err != nil:
		telemetry.RecordError(ctx, err)
		writeServerError(w, "Server error updating paste", err)
		return
	}

	h.metrics.RecordPasteUpdated()

	WriteJSON(w, http.StatusOK, struct {
		Message string         `json:"message"`
		Paste   *PasteResponse `json:"paste"`
	}{
		Message: "Paste updated successfully",
		Paste:   newPasteResponse(updated, true),
	})
}

// Delete handles DELETE /api/pastes/{identifier}. Stored attachment
// payloads are removed best-effort after the rows are gone.
func (h *PasteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	removed, err := h.store.DeletePaste(r.Context(), identifier)
	if errors.Is(err, models.ErrPasteNotFound) {
		writeMessage(w, http.StatusNotFound, "Paste not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error deleting paste", err)
		return
	}

	for _, f := range removed.Files {
		if err := h.uploads.Delete(r.Context(), f.StorageKey); err != nil {
			logger.Warn("Failed to delete attachment payload",
				"file_id", f.ID,
				"key", f.StorageKey,
				"error", err)
		}
	}

	h.metrics.RecordPasteDeleted("request", 1)
	writeMessage(w, http.StatusOK, "Paste deleted successfully")
}

// previewLength caps how much content the recent listing exposes per paste.
const previewLength = 200

// Recent handles GET /api/pastes/recent?limit=.
func (h *PasteHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	pastes, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeServerError(w, "Server error listing pastes", err)
		return
	}

	type recentEntry struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		Preview        string    `json:"preview"`
		CustomURL      *string   `json:"customUrl,omitempty"`
		IsJupyterStyle bool      `json:"isJupyterStyle"`
		Views          int64     `json:"views"`
		CreatedAt      time.Time `json:"createdAt"`
	}

	entries := make([]recentEntry, 0, len(pastes))
	for _, p := range pastes {
		preview := p.Content
		if p.HasBlocks() {
			preview = p.Blocks[0].Content
		}
		preview = truncatePreview(preview)
		entries = append(entries, recentEntry{
			ID:             p.ID,
			Title:          p.Title,
			Preview:        preview,
			CustomURL:      p.CustomURL,
			IsJupyterStyle: p.HasBlocks(),
			Views:          p.Views,
			CreatedAt:      p.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, struct {
		Pastes []recentEntry `json:"pastes"`
	}{entries})
}

// truncatePreview caps a preview at previewLength bytes without splitting a
// multi-byte rune at the boundary.
func truncatePreview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	cut := previewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CheckURL handles GET /api/pastes/check-url/{url}.
func (h *PasteHandler) CheckURL(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "url")

	available, err := h.store.CustomURLAvailable(r.Context(), alias)
	if err != nil {
		writeServerError(w, "Server error checking URL", err)
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		Available bool `json:"available"`
	}{available})
}

// QR handles GET /api/pastes/{identifier}/qr and answers a PNG QR code of
// the paste's share URL.
func (h *PasteHandler) QR(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	paste, err := h.store.GetPaste(r.Context(), identifier)
	if errors.Is(err, models.ErrPasteNotFound) {
		writeMessage(w, http.StatusNotFound, "Paste not found")
		return
	}
	if err != nil {
		writeServerError(w, "Server error fetching paste", err)
		return
	}

	slug := paste.ID
	if paste.CustomURL != nil {
		slug = *paste.CustomURL
	}
	shareURL := h.baseURL + "/" + slug

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "Server error generating QR code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

// Raw handles GET /raw/{identifier} and answers the paste body as plain
// text. Blocked pastes are joined with blank lines in block order.
func (h *PasteHandler) Raw(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	paste, err := h.store.GetPaste(r.Context(), identifier)
	if errors.Is(err, models.ErrPasteNotFound) {
		http.Error(w, "Paste not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if paste.PasswordProtected() {
		http.Error(w, "Paste is password protected", http.StatusForbidden)
		return
	}

	body := paste.Content
	if paste.HasBlocks() {
		parts := make([]string, len(paste.Blocks))
		for i, b := range paste.Blocks {
			parts[i] = b.Content
		}
		body = strings.Join(parts, "\n\n")
	}

	if err := h.store.IncrementViews(r.Context(), paste.ID); err == nil {
		h.metrics.RecordPasteViewed()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}
