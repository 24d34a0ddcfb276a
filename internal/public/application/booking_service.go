package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type bookingService struct {
	slots    SlotRepository
	bookings BookingRepository
	users    UserRepository
	notifier Notifier
	loc      *time.Location
	now      Clock
}

// BookingConfig wires the booking use-cases.
type BookingConfig struct {
	Slots    SlotRepository
	Bookings BookingRepository
	Users    UserRepository
	Notifier Notifier
	// Location decides calendar days for ListSlots. Defaults to UTC.
	Location *time.Location
	Clock    Clock
}

// NewBookingService builds a BookingService from cfg.
func NewBookingService(cfg BookingConfig) BookingService {
	s := &bookingService{
		slots:    cfg.Slots,
		bookings: cfg.Bookings,
		users:    cfg.Users,
		notifier: cfg.Notifier,
		loc:      cfg.Location,
		now:      cfg.Clock,
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = systemClock
	}
	return s
}

func (s *bookingService) requireRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != role || !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (s *bookingService) CreateSlot(ctx context.Context, cmd CreateSlotCommand) (*domain.Slot, error) {
	if _, err := s.requireRole(ctx, cmd.ProfessionalID, domain.RoleProfessional); err != nil {
		return nil, err
	}
	kind, err := domain.NewSlotKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	notes, err := domain.LimitRunes("notes", cmd.Notes, 1000)
	if err != nil {
		return nil, err
	}
	now := s.now()
	slot := &domain.Slot{
		ProfessionalID: cmd.ProfessionalID,
		StartsAt:       cmd.StartsAt.UTC(),
		EndsAt:         cmd.EndsAt.UTC(),
		Capacity:       cmd.Capacity,
		Kind:           kind,
		Notes:          notes,
		CreatedAt:      now,
	}
	if err := slot.Validate(now); err != nil {
		return nil, err
	}
	overlap, err := s.slots.HasOverlap(ctx, slot.ProfessionalID, slot.StartsAt, slot.EndsAt)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, fmt.Errorf("slot overlaps an existing slot: %w", domain.ErrConflict)
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	// Two concurrent creates can both pass HasOverlap; the later insert backs out.
	lost, err := s.slots.OverlapsEarlier(ctx, *slot)
	if err != nil {
		return nil, err
	}
	if lost {
		if err := s.slots.DeleteUnbooked(ctx, slot.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("slot overlaps an existing slot: %w", domain.ErrConflict)
	}
	return slot, nil
}

// ListSlots returns upcoming slots, or the slots of one calendar day when day is set.
func (s *bookingService) ListSlots(ctx context.Context, professionalID string, day *time.Time) ([]domain.Slot, error) {
	from := s.now()
	to := time.Time{}
	if day != nil {
		local := day.In(s.loc)
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
		from = start.UTC()
		to = start.AddDate(0, 0, 1).UTC()
	}
	return s.slots.ListByProfessional(ctx, professionalID, from, to)
}

func (s *bookingService) DeleteSlot(ctx context.Context, professionalID, slotID string) error {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.ProfessionalID != professionalID {
		return domain.ErrForbidden
	}
	if slot.BookedCount > 0 {
		return fmt.Errorf("slot has bookings: %w", domain.ErrConflict)
	}
	return s.slots.DeleteUnbooked(ctx, slotID)
}

func (s *bookingService) RequestBooking(ctx context.Context, cmd RequestBookingCommand) (*domain.Booking, error) {
	artist, err := s.requireRole(ctx, cmd.ArtistID, domain.RoleArtist)
	if err != nil {
		return nil, err
	}
	note, err := domain.LimitRunes("note", cmd.Note, 1000)
	if err != nil {
		return nil, err
	}
	slot, err := s.slots.FindByID(ctx, cmd.SlotID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !slot.StartsAt.After(now) {
		return nil, domain.Invalid("slotId", "slot has already started")
	}
	active, err := s.bookings.HasActive(ctx, slot.ID, artist.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("already booked: %w", domain.ErrConflict)
	}

	reserved, err := s.slots.Reserve(ctx, slot.ID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		SlotID:         reserved.ID,
		ProfessionalID: reserved.ProfessionalID,
		ArtistID:       artist.ID,
		Status:         domain.BookingPending,
		Note:           note,
		SlotStartsAt:   reserved.StartsAt,
		SlotEndsAt:     reserved.EndsAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if releaseErr := s.slots.Release(ctx, reserved.ID); releaseErr != nil {
			return nil, errors.Join(err, fmt.Errorf("release slot %s: %w", reserved.ID, releaseErr))
		}
		return nil, err
	}

	s.notifier.Notify(ctx, domain.Notification{
		UserID:  booking.ProfessionalID,
		Kind:    domain.NotifyBookingRequest,
		Subject: "New booking request",
		Text: fmt.Sprintf("%s requested your %s slot on %s",
			artist.DisplayName, reserved.Kind, reserved.StartsAt.In(s.loc).Format("Jan 2 15:04 MST")),
		Ref: booking.ID,
	})
	return booking, nil
}

func (s *bookingService) ChangeStatus(ctx context.Context, cmd ChangeBookingStatusCommand) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	actor := booking.ActorFor(cmd.UserID)
	if actor == "" {
		return nil, domain.ErrNotFound
	}
	now := s.now()
	if err := booking.CheckTransition(cmd.Status, actor, now); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, cmd.Status, now); err != nil {
		return nil, err
	}
	if cmd.Status == domain.BookingRejected || cmd.Status == domain.BookingCancelled {
		if err := s.slots.Release(ctx, booking.SlotID); err != nil {
			return nil, fmt.Errorf("release slot %s: %w", booking.SlotID, err)
		}
	}
	booking.Status = cmd.Status
	booking.UpdatedAt = now

	recipient := booking.ProfessionalID
	if actor == domain.ActorProfessional {
		recipient = booking.ArtistID
	}
	s.notifier.Notify(ctx, domain.Notification{
		UserID:  recipient,
		Kind:    domain.NotifyBookingUpdate,
		Subject: "Booking " + string(cmd.Status),
		Text: fmt.Sprintf("Your booking for %s is now %s",
			booking.SlotStartsAt.In(s.loc).Format("Jan 2 15:04 MST"), cmd.Status),
		Ref: booking.ID,
	})
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, query BookingQuery, paging Paging) ([]domain.Booking, int64, error) {
	filter := BookingFilter{Status: query.Status}
	switch query.As {
	case domain.ActorArtist:
		filter.ArtistID = query.UserID
	case domain.ActorProfessional:
		filter.ProfessionalID = query.UserID
	default:
		return nil, 0, domain.Invalid("as", "must be artist or professional")
	}
	return s.bookings.Find(ctx, filter, paging)
}
