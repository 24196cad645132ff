package domain

import (
	"regexp"
	"strings"
)

var leadingArticle = regexp.MustCompile(`^(the|a|an)\s+`)

// NormalizeArtistName canonicalizes a band name for equality comparison:
// lowercase, trimmed, one leading article stripped, every character
// outside [a-z0-9] removed. The result is only ever compared, never stored.
func NormalizeArtistName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = leadingArticle.ReplaceAllString(name, "")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Headliner extracts the first-listed act from a billing string, i.e.
// the text before the first ',' or '+'.
func Headliner(title string) string {
	if i := strings.IndexAny(title, ",+"); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
