package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// authService implements AuthService.
type authService struct {
	users   UserRepository
	issuer  TokenIssuer
	revoker TokenRevoker
	now     Clock
}

// NewAuthService wires the account use-cases. clock may be nil.
func NewAuthService(users UserRepository, issuer TokenIssuer, revoker TokenRevoker, clock Clock) AuthService {
	if clock == nil {
		clock = systemClock
	}
	return &authService{users: users, issuer: issuer, revoker: revoker, now: clock}
}

func (s *authService) SignUp(ctx context.Context, cmd SignUpCommand) (*AuthResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	role, err := domain.NewSignupRole(cmd.Role)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewDisplayName(cmd.DisplayName)
	if err != nil {
		return nil, err
	}
	hash, err := domain.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  name,
		Plan:         domain.PlanFree,
		Status:       domain.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastSignInAt: &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *authService) SignIn(ctx context.Context, cmd SignInCommand) (*AuthResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	ok, err := domain.CheckPassword(user.PasswordHash, cmd.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	if err := s.users.TouchSignIn(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastSignInAt = &now

	token, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *authService) SignOut(ctx context.Context, principal Principal) error {
	if principal.TokenID == "" {
		return nil
	}
	ttl := principal.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	// keep the entry a little past expiry to cover the validation leeway
	return s.revoker.AddToBlacklist(ctx, principal.TokenID, ttl+time.Minute)
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
