package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ServiceCategory groups premium services in the catalogue.
type ServiceCategory string

var serviceCategories = []ServiceCategory{
	"mixing", "mastering", "consultation", "playlist_pitching", "press_release", "career_coaching", "other",
}

// NewServiceCategory validates a category value.
func NewServiceCategory(value string) (ServiceCategory, error) {
	c := ServiceCategory(strings.ToLower(strings.TrimSpace(value)))
	for _, allowed := range serviceCategories {
		if allowed == c {
			return c, nil
		}
	}
	return "", Invalid("category", "unknown category %q", value)
}

// PremiumService is a paid offering a professional sells to artists.
type PremiumService struct {
	ID             string
	ProfessionalID string
	Title          string
	Description    string
	Category       ServiceCategory
	Price          Money
	DeliveryDays   int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ServiceDraft is the unvalidated input for creating or updating a service.
type ServiceDraft struct {
	Title        string
	Description  string
	Category     string
	Price        string
	Currency     string
	DeliveryDays int
}

// Apply validates the draft and writes it into s.
func (d ServiceDraft) Apply(s *PremiumService) error {
	title := strings.TrimSpace(d.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 120 {
		return Invalid("title", "must be between 3 and 120 characters")
	}
	description, err := LimitRunes("description", d.Description, 4000)
	if err != nil {
		return err
	}
	category, err := NewServiceCategory(d.Category)
	if err != nil {
		return err
	}
	price, err := NewServicePrice(d.Price, d.Currency)
	if err != nil {
		return err
	}
	if d.DeliveryDays < 1 || d.DeliveryDays > 90 {
		return Invalid("deliveryDays", "must be between 1 and 90")
	}
	s.Title = title
	s.Description = description
	s.Category = category
	s.Price = price
	s.DeliveryDays = d.DeliveryDays
	return nil
}
