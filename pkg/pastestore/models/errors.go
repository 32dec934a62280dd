package models

import "errors"

// Common errors for paste store operations.
var (
	// Paste errors
	ErrPasteNotFound    = errors.New("paste not found")
	ErrPasteNotEditable = errors.New("paste is not editable")
	ErrEmptyPaste       = errors.New("no content to save")

	// Custom URL errors
	ErrCustomURLTaken    = errors.New("custom URL already taken")
	ErrReservedCustomURL = errors.New("custom URL is reserved")
	ErrInvalidCustomURL  = errors.New("custom URL contains invalid characters")

	// Password errors
	ErrWrongPassword = errors.New("incorrect password")

	// File errors
	ErrFileNotFound = errors.New("file not found")
)
