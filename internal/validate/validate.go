package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// letters and digits of any script, plus a few separators
	reQ         = regexp.MustCompile(`^[\p{L}\p{N} _'.,+&/-]{1,100}$`)
	reID        = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reProductNo = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 255 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, caps at 100 characters and rejects
// markup or control characters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	return s, reQ.MatchString(s)
}

// ID validates a resource identifier (product ids and numbers).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func ProductNo(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reProductNo.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Page parses a 1-based page number. Empty means 1.
func Page(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Size parses a page size in [1, max]. Empty means def.
func Size(s string, def, max int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

// OptInt64 parses an optional non-negative integer such as a price bound.
func OptInt64(s string) (*int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, false
	}
	return &n, true
}

// Weight parses a blend weight in [0, 1]. Empty means def.
func Weight(s string, def float64) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return 0, false
	}
	return f, true
}

// SortOrder accepts asc/desc; empty means desc.
func SortOrder(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc":
		return "desc", true
	case "asc":
		return "asc", true
	}
	return "", false
}
