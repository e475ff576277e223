package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	wsRe   = regexp.MustCompile(`\s+`)
)

// Meta describes a pagination window. TotalPages is always
// ceil(Total/Limit); HasNextPage/HasPrevPage are derived from Page so the
// envelope can never contradict itself.
type Meta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewMeta computes window metadata for a filter that matched total rows.
// page and limit must already be positive (the handlers clamp them).
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Offset converts a 1-based page into a skip offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func IsUUID(s string) bool { return uuidRe.MatchString(s) }

// FoldSearch lowercases a search term and strips combining marks so
// "García" and "garcia" hit the same rows. The SQL side applies lower()
// per row; accent stripping happens here once per request.
func FoldSearch(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFKD,
		transform.RemoveFunc(func(r rune) bool { return unicode.Is(unicode.Mn, r) }),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return wsRe.ReplaceAllString(strings.ToLower(folded), " ")
}

// SanitizeString trims, drops NULs and collapses inner whitespace.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\x00", "")
	return wsRe.ReplaceAllString(s, " ")
}

// CleanStrings sanitizes each entry and drops empties, preserving order.
func CleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = SanitizeString(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
