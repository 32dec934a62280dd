// Package handlers provides HTTP handlers for the PasteShare API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
)

// MessageResponse is the envelope for status-only responses.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// PasteResponse is the JSON view of a paste.
//
// canEdit mirrors isEditable so clients can gate their edit UI without
// knowing the storage model. Password hashes never leave the server.
type PasteResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	CustomURL      *string         `json:"customUrl,omitempty"`
	IsJupyterStyle bool            `json:"isJupyterStyle"`
	IsPrivate      bool            `json:"isPrivate"`
	IsEditable     bool            `json:"isEditable"`
	CanEdit        bool            `json:"canEdit"`
	HasPassword    bool            `json:"hasPassword"`
	Views          int64           `json:"views"`
	ExpiresAt      *time.Time      `json:"expiresAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Blocks         []BlockResponse `json:"blocks"`
	Files          []FileResponse  `json:"files,omitempty"`
}

// BlockResponse is the JSON view of a content block.
type BlockResponse struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Order    int    `json:"order"`
}

// FileResponse is the JSON view of an attachment record.
type FileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

// newPasteResponse builds the JSON view of a paste. When withContent is
// false the flat content and the blocks are withheld, which is how
// password-protected pastes answer until the password is verified.
func newPasteResponse(p *models.Paste, withContent bool) *PasteResponse {
	resp := &PasteResponse{
		ID:          p.ID,
		Title:       p.Title,
		CustomURL:   p.CustomURL,
		IsPrivate:   p.IsPrivate,
		IsEditable:  p.IsEditable,
		CanEdit:     p.IsEditable,
		HasPassword: p.PasswordProtected(),
		Views:       p.Views,
		ExpiresAt:   p.ExpiresAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Blocks:      []BlockResponse{},
	}

	// The stored flag can only be trusted as far as the rows allow; derive
	// the representation from the blocks actually present.
	resp.IsJupyterStyle = p.HasBlocks()

	if withContent {
		resp.Content = p.Content
		for _, b := range p.Blocks {
			resp.Blocks = append(resp.Blocks, BlockResponse{
				ID:       b.ID,
				Content:  b.Content,
				Language: b.Language,
				Order:    b.Order,
			})
		}
	}

	for _, f := range p.Files {
		resp.Files = append(resp.Files, FileResponse{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
		})
	}

	return resp
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes a status-only response.
func writeMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// writeServerError writes a 500 response carrying the error detail.
func writeServerError(w http.ResponseWriter, message string, err error) {
	WriteJSON(w, http.StatusInternalServerError, MessageResponse{
		Message: message,
		Error:   err.Error(),
	})
}
