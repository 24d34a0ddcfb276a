package application

import (
	"context"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type profileService struct {
	users UserRepository
	now   Clock
}

// NewProfileService wires profile reads and edits.
func NewProfileService(users UserRepository, clock Clock) ProfileService {
	if clock == nil {
		clock = systemClock
	}
	return &profileService{users: users, now: clock}
}

// Get hides suspended accounts behind ErrNotFound.
func (s *profileService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *profileService) Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	if err := patch.Apply(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) Search(ctx context.Context, filter ProfileFilter, paging Paging) ([]domain.User, int64, error) {
	if filter.Role == domain.RoleAdmin {
		return []domain.User{}, 0, nil
	}
	return s.users.Search(ctx, filter, paging)
}
