package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; bluemonday policies are safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// SanitizeText strips markup from user-supplied free text and trims it.
// Entities escaped by the policy are decoded again since the result is
// stored as plain text, not HTML.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
