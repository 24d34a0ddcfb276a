package application

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type dashboardService struct {
	users    UserRepository
	bookings BookingStats
	payments PaymentRepository
}

func NewDashboardService(users UserRepository, bookings BookingStats, payments PaymentRepository) DashboardService {
	return &dashboardService{users: users, bookings: bookings, payments: payments}
}

// Overview runs the aggregations concurrently; the first failure cancels the rest.
func (s *dashboardService) Overview(ctx context.Context) (*admindomain.Dashboard, error) {
	var dash admindomain.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.users.Counts(gctx)
		dash.Users = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.bookings.CountByStatus(gctx)
		dash.Bookings = counts
		return err
	})
	g.Go(func() error {
		totals, err := s.payments.Totals(gctx, domain.PaymentSucceeded)
		dash.Payments = totals
		return err
	})
	g.Go(func() error {
		totals, err := s.payments.Totals(gctx, domain.PaymentRefunded)
		dash.Refunded = totals
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	dash.GeneratedAt = time.Now().UTC()
	return &dash, nil
}

type ledgerService struct {
	payments      PaymentRepository
	notifications FailedNotificationRepository
}

func NewLedgerService(payments PaymentRepository, notifications FailedNotificationRepository) LedgerService {
	return &ledgerService{payments: payments, notifications: notifications}
}

func (s *ledgerService) Payments(ctx context.Context, status domain.PaymentStatus, paging Paging) ([]domain.Payment, int64, error) {
	return s.payments.FindAll(ctx, status, paging)
}

func (s *ledgerService) FailedNotifications(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, int64, error) {
	return s.notifications.List(ctx, paging)
}
