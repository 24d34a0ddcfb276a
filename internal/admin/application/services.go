package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// UserRepository exposes member administration.
type UserRepository interface {
	Find(ctx context.Context, filter UserFilter, paging Paging) ([]domain.User, int64, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.UserStatus, at time.Time) error
	SetVerified(ctx context.Context, id string, verified bool, at time.Time) error
	Counts(ctx context.Context) (admindomain.UserCounts, error)
}

// BookingStats aggregates bookings.
type BookingStats interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// PaymentRepository exposes the payment ledger.
type PaymentRepository interface {
	FindAll(ctx context.Context, status domain.PaymentStatus, paging Paging) ([]domain.Payment, int64, error)
	Totals(ctx context.Context, status domain.PaymentStatus) (admindomain.PaymentTotals, error)
}

// FailedNotificationRepository lists undelivered notifications.
type FailedNotificationRepository interface {
	List(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, int64, error)
}

// TokenInvalidator rejects every token a user was issued before now.
type TokenInvalidator interface {
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
}

// UserFilter expresses admin member search criteria.
type UserFilter struct {
	Role    domain.Role
	Status  domain.UserStatus
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// Skip is the number of documents before the requested page.
func (p Paging) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return int64((p.Page - 1) * p.Limit)
}

// MemberService describes admin member use-cases.
type MemberService interface {
	List(ctx context.Context, filter UserFilter, paging Paging) ([]domain.User, int64, error)
	Detail(ctx context.Context, id string) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error)
	SetVerified(ctx context.Context, id string, verified bool) (*domain.User, error)
}

// DashboardService builds the operator overview.
type DashboardService interface {
	Overview(ctx context.Context) (*admindomain.Dashboard, error)
}

// LedgerService lists payments and undelivered notifications.
type LedgerService interface {
	Payments(ctx context.Context, status domain.PaymentStatus, paging Paging) ([]domain.Payment, int64, error)
	FailedNotifications(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, int64, error)
}
