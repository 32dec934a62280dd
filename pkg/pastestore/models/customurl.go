package models

import (
	"regexp"
	"strings"
)

// reservedCustomURLs are aliases that collide with routes or planned routes
// and can never be claimed by a paste.
var reservedCustomURLs = map[string]struct{}{
	"api":     {},
	"recent":  {},
	"health":  {},
	"raw":     {},
	"files":   {},
	"metrics": {},
	"static":  {},
	"admin":   {},
	"about":   {},
	"new":     {},
}

// customURLPattern is the accepted alias shape: 3-64 chars of letters,
// digits, hyphen and underscore.
var customURLPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// ValidateCustomURL checks a requested alias against the grammar and the
// reserved-word set. The empty string is valid (no alias requested).
func ValidateCustomURL(alias string) error {
	if alias == "" {
		return nil
	}
	if !customURLPattern.MatchString(alias) {
		return ErrInvalidCustomURL
	}
	if _, reserved := reservedCustomURLs[strings.ToLower(alias)]; reserved {
		return ErrReservedCustomURL
	}
	return nil
}
