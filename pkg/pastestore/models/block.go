package models

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultBlockLanguage is the language tag assigned to blocks that do not
// declare one.
const DefaultBlockLanguage = "text"

// Block is one cell of a blocked (notebook-style) paste.
//
// Blocks are owned exclusively by their paste and are replaced wholesale on
// every block update; they are never patched individually. Order is a dense
// zero-based position assigned by the store; client-supplied positions are
// discarded.
type Block struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	PasteID  string `gorm:"not null;size:21;index" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Language string `gorm:"size:50;default:text" json:"language"`
	Order    int    `gorm:"column:order;not null" json:"order"`
}

// TableName returns the table name for Block.
func (Block) TableName() string {
	return "blocks"
}

// BlockInput is one element of an incoming block sequence, before
// normalization. The ID is a client suggestion and is only honored when it
// matches the block identifier grammar.
type BlockInput struct {
	ID       string `json:"id,omitempty"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// Blank reports whether the block carries no meaningful content and should be
// dropped during normalization.
func (b BlockInput) Blank() bool {
	return strings.TrimSpace(b.Content) == ""
}

// NormalizeBlocks turns an input sequence into persistable blocks: blank
// entries are dropped, surviving entries get a dense zero-based order, and a
// client-supplied id is reused only when it parses as a UUID and has not
// already been claimed by an earlier block in the same sequence.
//
// The returned slice is empty when every input was blank; callers treat that
// as a validation failure.
func NormalizeBlocks(inputs []BlockInput) []Block {
	blocks := make([]Block, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if in.Blank() {
			continue
		}

		id := in.ID
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		} else if _, dup := seen[id]; dup {
			id = uuid.New().String()
		}
		seen[id] = struct{}{}

		language := in.Language
		if language == "" {
			language = DefaultBlockLanguage
		}

		blocks = append(blocks, Block{
			ID:       id,
			Content:  in.Content,
			Language: language,
			Order:    len(blocks),
		})
	}
	return blocks
}
