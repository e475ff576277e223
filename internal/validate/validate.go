package validate

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RequireBounded trims and ensures rune-length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// OptionalBounded trims and ensures a max rune length; empty is fine.
func OptionalBounded(name, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must not exceed " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// Email lowercases, trims and checks the basic shape.
func Email(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRe.MatchString(s) {
		return "", errors.New("invalid email format")
	}
	return s, nil
}

// OptionalURL trims and checks for an absolute http(s) URL; empty passes.
func OptionalURL(name, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.New(name + " must be a valid URL")
	}
	return s, nil
}

// OptionalIntRange checks a bounded numeric field; nil passes.
func OptionalIntRange(name string, v *int, min, max int) error {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		return errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return nil
}

// OptionalPrice checks a non-negative bounded price; nil passes.
func OptionalPrice(name string, v *float64, max float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > max {
		return errors.New(name + " must be between 0 and " + strconv.FormatFloat(max, 'f', -1, 64))
	}
	return nil
}

// NotFuture parses an ISO date and rejects values after now.
func NotFuture(name, s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return nil, errors.New(name + " must be a valid date")
		}
	}
	if t.After(now) {
		return nil, errors.New(name + " cannot be in the future")
	}
	return &t, nil
}
