package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a human-readable name into a URL-safe slug: lowercase ASCII
// with runs of non-alphanumeric characters collapsed to single hyphens and
// leading/trailing hyphens trimmed.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
