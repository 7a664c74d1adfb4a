package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeUGC strips unsafe markup from user-generated content and trims
// surrounding whitespace. The policy escapes entities, so unescape to keep
// plain characters like & intact for storage.
func SanitizeUGC(content string) string {
	return strings.TrimSpace(html.UnescapeString(ugcPolicy.Sanitize(content)))
}

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeStrict removes all markup. Used for names, titles and tags.
func SanitizeStrict(content string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(content)))
}
