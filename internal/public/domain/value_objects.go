package domain

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Role distinguishes the two sides of the marketplace plus operators.
type Role string

const (
	RoleArtist       Role = "artist"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// NewSignupRole accepts only the roles a visitor may choose for themselves.
func NewSignupRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleArtist:
		return RoleArtist, nil
	case RoleProfessional:
		return RoleProfessional, nil
	}
	return "", Invalid("role", "must be artist or professional")
}

// ParseRole accepts any known role, including admin.
func ParseRole(value string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(value))); r {
	case RoleArtist, RoleProfessional, RoleAdmin:
		return r, true
	}
	return "", false
}

// Plan decides the commission rate applied to a seller.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// ParseUserStatus validates an admin-supplied status.
func ParseUserStatus(value string) (UserStatus, error) {
	switch s := UserStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case UserActive, UserSuspended:
		return s, nil
	}
	return "", Invalid("status", "must be active or suspended")
}

var professionalTypes = []string{"producer", "manager", "label", "booking_agent", "engineer", "promoter", "journalist", "other"}

// ProfessionalType is the industry role of a professional account.
type ProfessionalType string

func NewProfessionalType(value string) (ProfessionalType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", nil
	}
	for _, allowed := range professionalTypes {
		if allowed == trimmed {
			return ProfessionalType(trimmed), nil
		}
	}
	return "", Invalid("professionalType", "must be one of %s", strings.Join(professionalTypes, ", "))
}

// Email is a normalised (trimmed, lower-cased) address.
type Email string

func NewEmail(value string) (Email, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", Invalid("email", "is required")
	}
	if len(trimmed) > 254 {
		return "", Invalid("email", "must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", Invalid("email", "is not a valid address")
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

// NewDisplayName trims and bounds a public name.
func NewDisplayName(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", Invalid("displayName", "is required")
	}
	if utf8.RuneCountInString(trimmed) > 80 {
		return "", Invalid("displayName", "must be at most 80 characters")
	}
	return trimmed, nil
}

// URL is an optional absolute http(s) link.
type URL string

func NewURL(field, value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", Invalid(field, "must be an absolute http(s) URL")
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

// MaxGenres bounds the genre tags on a profile or questionnaire.
const MaxGenres = 10

// NormalizeGenres lower-cases, trims and de-duplicates genre tags.
func NormalizeGenres(values []string) ([]string, error) {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		genre := strings.ToLower(strings.TrimSpace(raw))
		if genre == "" {
			continue
		}
		if utf8.RuneCountInString(genre) > 40 {
			return nil, Invalid("genres", "each genre must be at most 40 characters")
		}
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		result = append(result, genre)
	}
	if len(result) > MaxGenres {
		return nil, Invalid("genres", "at most %d genres are allowed", MaxGenres)
	}
	return result, nil
}

// LimitRunes trims value and rejects it when longer than max runes.
func LimitRunes(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > max {
		return "", Invalid(field, "must be at most %d characters", max)
	}
	return trimmed, nil
}
