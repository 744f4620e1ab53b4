package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML and null bytes and trims whitespace. The
// result is plain text: entities escaped by the policy are decoded again so
// "R&D" is stored as typed. Escaping is left to whatever renders it.
func SanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(html.UnescapeString(htmlPolicy.Sanitize(input)))
}
