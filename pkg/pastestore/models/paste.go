package models

import (
	"time"
)

// Paste is the persistent representation of a paste.
//
// A paste holds its body in exactly one of two forms:
//   - flat: Content carries the whole body, IsJupyterStyle is false and no
//     Block rows exist
//   - blocked: IsJupyterStyle is true, Content is empty and the body is the
//     ordered Block sequence
//
// The store never leaves a paste observable in a mixed state; representation
// switches happen inside a single transaction.
type Paste struct {
	ID             string     `gorm:"primaryKey;size:21" json:"id"`
	CustomURL      *string    `gorm:"uniqueIndex;size:64" json:"customUrl,omitempty"`
	Title          string     `gorm:"size:255" json:"title"`
	Content        string     `gorm:"type:text" json:"content"`
	IsJupyterStyle bool       `gorm:"default:false" json:"isJupyterStyle"`
	IsPrivate      bool       `gorm:"default:false" json:"isPrivate"`
	IsEditable     bool       `gorm:"default:true" json:"isEditable"`
	PasswordHash   string     `gorm:"size:100" json:"-"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	Views          int64      `gorm:"default:0" json:"views"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Blocks []Block `gorm:"foreignKey:PasteID;constraint:OnDelete:CASCADE" json:"blocks,omitempty"`
	Files  []File  `gorm:"foreignKey:PasteID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

// TableName returns the table name for Paste.
func (Paste) TableName() string {
	return "pastes"
}

// Expired reports whether the paste has an expiry in the past.
// Expired pastes behave as if they do not exist.
func (p *Paste) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// PasswordProtected reports whether reads must be unlocked with a password.
func (p *Paste) PasswordProtected() bool {
	return p.PasswordHash != ""
}

// HasBlocks reports whether any Block rows are attached. The block
// representation is derived from this rather than trusting the stored flag.
func (p *Paste) HasBlocks() bool {
	return len(p.Blocks) > 0
}
