package studiogen

import (
	"regexp"
	"strings"
)

var (
	slugStrip   = regexp.MustCompile(`[^\p{L}\p{N}\s_-]+`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL slug from a title: lower-case, strip everything that
// is not a letter, digit, underscore, space or hyphen, collapse whitespace
// to single hyphens and collapse repeated hyphens.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
