// Package fblink extracts Facebook profile identifiers from free text.
// Everything here is pure pattern matching; vanity-name resolution through
// the Graph API belongs to the lookup usecase.
package fblink

import (
	"regexp"
	"strings"
)

var (
	linkRe      = regexp.MustCompile(`https?://(?:www\.|m\.|mbasic\.|web\.)?facebook\.com/[^\s]+`)
	profileIDRe = regexp.MustCompile(`facebook\.com/profile\.php\?(?:[^\s&?]*&)*id=([0-9]+)`)
	slugRe      = regexp.MustCompile(`facebook\.com/([0-9A-Za-z.\-_]+)`)
	digitsRe    = regexp.MustCompile(`^[0-9]+$`)
)

// FindLinks returns every facebook.com URL found in text, in order.
// Malformed input yields an empty slice, never an error.
func FindLinks(text string) []string {
	return linkRe.FindAllString(text, -1)
}

// Slug returns the identifier a Facebook URL points at: the numeric id from
// profile.php?id=..., or the first path segment (vanity name or raw number).
// Returns "" when the URL encodes neither.
func Slug(url string) string {
	if m := profileIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	m := slugRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	s := strings.TrimRight(m[1], ".")
	// profile.php without an id query encodes nothing useful
	if s == "" || strings.EqualFold(s, "profile.php") {
		return ""
	}
	return s
}

// Extract scans text for Facebook links and returns the first UID that is
// encoded directly as digits. Vanity-only links return ok=false; so does
// any input without a recognizable link.
func Extract(text string) (uid string, ok bool) {
	for _, link := range FindLinks(text) {
		s := Slug(link)
		if IsNumeric(s) {
			return s, true
		}
	}
	// A bare numeric profile URL pasted without a scheme still counts.
	if m := profileIDRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// IsNumeric reports whether s is a plain digit string.
func IsNumeric(s string) bool { return s != "" && digitsRe.MatchString(s) }
