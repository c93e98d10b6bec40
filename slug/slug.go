// Package slug turns a form's title and UUID into a readable URL segment and
// recovers the UUID from such a segment.
package slug

import (
	"regexp"
	"strings"
)

// MaxTitleLen bounds the title-derived part of a slug.
const MaxTitleLen = 50

const windowSize = 5 // hyphen-separated groups in a UUID

var (
	reSpecial = regexp.MustCompile(`[^\w\s-]`)
	reSpaces  = regexp.MustCompile(`[\s_-]+`)
	reEdges   = regexp.MustCompile(`^-+|-+$`)
	reUUID    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// Title returns the title-derived part of a slug, at most MaxTitleLen bytes.
func Title(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = reSpecial.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, "-")
	s = reEdges.ReplaceAllString(s, "")
	if len(s) > MaxTitleLen {
		s = s[:MaxTitleLen]
	}
	return s
}

// Encode appends the full id to the title part, or to "form" when the title
// has nothing usable in it.
func Encode(title, id string) string {
	t := Title(title)
	if t == "" {
		return "form-" + id
	}
	return t + "-" + id
}

// Decode returns the first UUID found scanning the slug's hyphen-separated
// groups left to right.
func Decode(slug string) (string, bool) {
	parts := strings.Split(slug, "-")
	for i := 0; i+windowSize <= len(parts); i++ {
		candidate := strings.Join(parts[i:i+windowSize], "-")
		if IsUUID(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func IsUUID(s string) bool {
	return reUUID.MatchString(s)
}
