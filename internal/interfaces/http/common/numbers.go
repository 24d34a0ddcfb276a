package common

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// PageParams is the page/limit/sort triple read from a query string.
type PageParams struct {
	Page  int
	Limit int
	Sort  string
}

// ParsePage reads page (>= 1, default 1), limit (1..max, default def) and sort.
// Present but malformed values are rejected rather than silently replaced.
func ParsePage(query url.Values, def, max int) (PageParams, error) {
	params := PageParams{Page: 1, Limit: def, Sort: strings.TrimSpace(query.Get("sort"))}
	if raw := query.Get("page"); strings.TrimSpace(raw) != "" {
		page, ok := ParsePositiveInt(raw, 0)
		if !ok {
			return PageParams{}, domain.Invalid("page", "must be a positive integer")
		}
		params.Page = page
	}
	if raw := query.Get("limit"); strings.TrimSpace(raw) != "" {
		limit, ok := ParsePositiveInt(raw, 0)
		if !ok || limit > max {
			return PageParams{}, domain.Invalid("limit", "must be between 1 and %d", max)
		}
		params.Limit = limit
	}
	return params, nil
}

// ParseOptionalInt reads an optional non-negative integer.
func ParseOptionalInt(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, domain.Invalid(key, "must be a non-negative integer")
	}
	return value, nil
}
