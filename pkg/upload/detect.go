package upload

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedMimeTypes lists exact content types accepted as attachments, beyond
// the text/* family.
var allowedMimeTypes = map[string]bool{
	"image/png":                true,
	"image/jpeg":               true,
	"image/gif":                true,
	"image/webp":               true,
	"image/svg+xml":            true,
	"application/pdf":          true,
	"application/json":         true,
	"application/xml":          true,
	"application/zip":          true,
	"application/gzip":         true,
	"application/x-tar":        true,
	"application/octet-stream": true,
}

// DetectContentType sniffs the content type from the payload head. The
// declared type from the client is ignored; only the bytes count.
func DetectContentType(head []byte) string {
	return mimetype.Detect(head).String()
}

// AllowedContentType reports whether a sniffed content type may be stored.
// The whole text/* family is accepted, plus a fixed set of binary types.
func AllowedContentType(mime string) bool {
	// Strip parameters like "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	return allowedMimeTypes[mime]
}
