package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
)

// BlocksField accepts the block list either as a structured JSON array or as
// a JSON string containing the serialized array. Browser form submissions
// send the latter; API clients send the former. Both normalize to the same
// slice.
type BlocksField []models.BlockInput

// UnmarshalJSON implements the string-or-array acceptance.
func (b *BlocksField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*b = nil
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*b = nil
			return nil
		}
		var inner []models.BlockInput
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return fmt.Errorf("invalid blocks payload: %w", err)
		}
		*b = inner
		return nil
	}

	var arr []models.BlockInput
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return err
	}
	*b = arr
	return nil
}

// createPasteRequest is the JSON body for paste creation. The same fields
// arrive as form values on the multipart path.
type createPasteRequest struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Blocks     BlocksField `json:"blocks"`
	CustomURL  string      `json:"customUrl"`
	Password   string      `json:"password"`
	IsPrivate  bool        `json:"isPrivate"`
	IsEditable *bool       `json:"isEditable"`

	// ExpiresIn is the paste lifetime in seconds. Zero means never.
	ExpiresIn int64 `json:"expiresIn"`
}

// updatePasteRequest is the JSON body for paste updates. Nil fields are not
// applied; a non-empty Blocks field wins over Content.
type updatePasteRequest struct {
	Title   *string     `json:"title"`
	Content *string     `json:"content"`
	Blocks  BlocksField `json:"blocks"`
}

// verifyPasswordRequest is the JSON body for the password gate.
type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
