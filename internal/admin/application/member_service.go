package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// memberService implements MemberService.
type memberService struct {
	repo        UserRepository
	invalidator TokenInvalidator
	tokenTTL    time.Duration
	now         func() time.Time
}

// NewMemberService wires member moderation. tokenTTL bounds how long a
// suspension marker must outlive the tokens it invalidates.
func NewMemberService(repo UserRepository, invalidator TokenInvalidator, tokenTTL time.Duration) MemberService {
	return &memberService{
		repo:        repo,
		invalidator: invalidator,
		tokenTTL:    tokenTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *memberService) List(ctx context.Context, filter UserFilter, paging Paging) ([]domain.User, int64, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *memberService) Detail(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// SetStatus moderates an account. Suspending also revokes its sessions.
func (s *memberService) SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin && status == domain.UserSuspended {
		return nil, domain.Invalid("status", "admins cannot be suspended")
	}
	now := s.now()
	if err := s.repo.SetStatus(ctx, id, status, now); err != nil {
		return nil, err
	}
	if status == domain.UserSuspended {
		if err := s.invalidator.AddUserTokensToBlacklist(ctx, id, s.tokenTTL+time.Minute); err != nil {
			return nil, fmt.Errorf("invalidate tokens for %s: %w", id, err)
		}
	}
	user.Status = status
	user.UpdatedAt = now
	return user, nil
}

func (s *memberService) SetVerified(ctx context.Context, id string, verified bool) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.SetVerified(ctx, id, verified, now); err != nil {
		return nil, err
	}
	user.Verified = verified
	user.UpdatedAt = now
	return user, nil
}
