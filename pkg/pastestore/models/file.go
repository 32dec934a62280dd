package models

import "time"

// File is an attachment uploaded alongside a paste. The payload itself lives
// in the upload storage backend; StorageKey is the handle it was stored under.
type File struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	PasteID      string    `gorm:"not null;size:21;index" json:"-"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	StorageKey   string    `gorm:"size:255;not null" json:"-"`
	MimeType     string    `gorm:"size:100" json:"mimeType"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for File.
func (File) TableName() string {
	return "files"
}
