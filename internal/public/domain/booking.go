package domain

import (
	"strings"
	"time"
)

const (
	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 8 * time.Hour
	MaxSlotCapacity = 50
)

// SlotKind describes what a professional offers in a slot.
type SlotKind string

const (
	SlotConsultation     SlotKind = "consultation"
	SlotListeningSession SlotKind = "listening_session"
	SlotMentoring        SlotKind = "mentoring"
	SlotOther            SlotKind = "other"
)

// NewSlotKind defaults to consultation when empty.
func NewSlotKind(value string) (SlotKind, error) {
	switch k := SlotKind(strings.ToLower(strings.TrimSpace(value))); k {
	case "":
		return SlotConsultation, nil
	case SlotConsultation, SlotListeningSession, SlotMentoring, SlotOther:
		return k, nil
	}
	return "", Invalid("kind", "must be consultation, listening_session, mentoring or other")
}

// Slot is a window of availability published by a professional.
// BookedCount counts pending and confirmed bookings and never exceeds Capacity.
type Slot struct {
	ID             string
	ProfessionalID string
	StartsAt       time.Time
	EndsAt         time.Time
	Capacity       int
	BookedCount    int
	Kind           SlotKind
	Notes          string
	CreatedAt      time.Time
}

// Remaining is the number of bookings the slot can still accept.
func (s Slot) Remaining() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// Validate checks the slot window and capacity relative to now.
func (s Slot) Validate(now time.Time) error {
	if !s.EndsAt.After(s.StartsAt) {
		return Invalid("endsAt", "must be after startsAt")
	}
	d := s.EndsAt.Sub(s.StartsAt)
	if d < MinSlotDuration || d > MaxSlotDuration {
		return Invalid("endsAt", "slot must last between %s and %s", MinSlotDuration, MaxSlotDuration)
	}
	if !s.StartsAt.After(now) {
		return Invalid("startsAt", "must be in the future")
	}
	if s.Capacity < 1 || s.Capacity > MaxSlotCapacity {
		return Invalid("capacity", "must be between 1 and %d", MaxSlotCapacity)
	}
	return nil
}

// Overlaps reports whether two half-open windows intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ParseBookingStatus validates a status from input.
func ParseBookingStatus(value string) (BookingStatus, bool) {
	switch s := BookingStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted:
		return s, true
	}
	return "", false
}

// HoldsCapacity reports whether bookings in this state count against the slot.
func (s BookingStatus) HoldsCapacity() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is an artist's reservation of a slot.
type Booking struct {
	ID             string
	SlotID         string
	ProfessionalID string
	ArtistID       string
	Status         BookingStatus
	Note           string
	SlotStartsAt   time.Time
	SlotEndsAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor is the side of the booking requesting a transition.
type Actor string

const (
	ActorArtist       Actor = "artist"
	ActorProfessional Actor = "professional"
)

// ActorFor resolves which side userID is on, or "" when not a party.
func (b Booking) ActorFor(userID string) Actor {
	switch userID {
	case b.ArtistID:
		return ActorArtist
	case b.ProfessionalID:
		return ActorProfessional
	}
	return ""
}

// CheckTransition validates moving b to next by actor at now.
func (b Booking) CheckTransition(next BookingStatus, actor Actor, now time.Time) error {
	switch {
	case b.Status == BookingPending && (next == BookingConfirmed || next == BookingRejected):
		if actor != ActorProfessional {
			return ErrForbidden
		}
		return nil
	case (b.Status == BookingPending || b.Status == BookingConfirmed) && next == BookingCancelled:
		if actor == "" {
			return ErrForbidden
		}
		if !now.Before(b.SlotStartsAt) {
			return ErrInvalidTransition
		}
		return nil
	case b.Status == BookingConfirmed && next == BookingCompleted:
		if actor != ActorProfessional {
			return ErrForbidden
		}
		if now.Before(b.SlotEndsAt) {
			return ErrInvalidTransition
		}
		return nil
	}
	return ErrInvalidTransition
}
