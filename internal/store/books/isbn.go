package books

import (
	"regexp"
	"strings"
)

var (
	isbnSepRe = regexp.MustCompile(`[-\s]`)
	isbn10Re  = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Re  = regexp.MustCompile(`^\d{13}$`)
)

// NormalizeISBN strips hyphens/spaces and uppercases the ISBN-10 check
// character. The normalized form is the uniqueness key: "978-0-06-088328-7"
// and "9780060883287" collapse to the same value.
func NormalizeISBN(s string) string {
	return strings.ToUpper(isbnSepRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// IsValidISBN reports whether the normalized value has ISBN-10 or ISBN-13
// shape. Checksum digits are not verified; the shape check mirrors what
// the catalog accepts on input.
func IsValidISBN(normalized string) bool {
	return isbn10Re.MatchString(normalized) || isbn13Re.MatchString(normalized)
}
