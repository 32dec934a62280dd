package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePreview(t *testing.T) {
	t.Run("short content untouched", func(t *testing.T) {
		assert.Equal(t, "hello", truncatePreview("hello"))
	})

	t.Run("long content capped", func(t *testing.T) {
		long := strings.Repeat("x", previewLength+50)
		assert.Equal(t, previewLength, len(truncatePreview(long)))
	})

	t.Run("never splits a rune", func(t *testing.T) {
		// Three-byte runes guarantee the byte cap lands mid-rune.
		long := strings.Repeat("世", previewLength)
		got := truncatePreview(long)
		assert.True(t, utf8.ValidString(got), "truncated preview must stay valid UTF-8")
		assert.LessOrEqual(t, len(got), previewLength)
		assert.Greater(t, len(got), 0)
	})
}
