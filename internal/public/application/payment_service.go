package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type paymentService struct {
	payments PaymentRepository
	services ServiceRepository
	users    UserRepository
	gateway  PaymentGateway
	policy   domain.CommissionPolicy
	notifier Notifier
	now      Clock
}

// PaymentConfig wires the purchase use-cases.
type PaymentConfig struct {
	Payments PaymentRepository
	Services ServiceRepository
	Users    UserRepository
	Gateway  PaymentGateway
	Policy   domain.CommissionPolicy
	Notifier Notifier
	Clock    Clock
}

// NewPaymentService builds a PaymentService from cfg.
func NewPaymentService(cfg PaymentConfig) PaymentService {
	s := &paymentService{
		payments: cfg.Payments,
		services: cfg.Services,
		users:    cfg.Users,
		gateway:  cfg.Gateway,
		policy:   cfg.Policy,
		notifier: cfg.Notifier,
		now:      cfg.Clock,
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.now == nil {
		s.now = systemClock
	}
	return s
}

// Purchase records a pending payment, then opens an intent with the gateway.
// A gateway failure marks the payment failed.
func (s *paymentService) Purchase(ctx context.Context, buyerID, serviceID string) (*domain.Payment, error) {
	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if !buyer.IsArtist() || !buyer.IsActive() {
		return nil, domain.ErrForbidden
	}
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.ErrNotFound
	}
	if svc.ProfessionalID == buyer.ID {
		return nil, domain.Invalid("serviceId", "cannot purchase your own service")
	}
	seller, err := s.users.FindByID(ctx, svc.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if !seller.IsActive() {
		return nil, domain.ErrNotFound
	}

	commission := s.policy.Calculate(svc.Price.Amount, seller.Plan)
	now := s.now()
	payment := &domain.Payment{
		ServiceID:      svc.ID,
		ServiceTitle:   svc.Title,
		BuyerID:        buyer.ID,
		SellerID:       seller.ID,
		Amount:         svc.Price,
		CommissionRate: commission.Rate,
		Commission:     commission.Fee,
		Payout:         commission.Payout,
		Status:         domain.PaymentPending,
		Provider:       s.gateway.Name(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{
		PaymentID:   payment.ID,
		ServiceID:   svc.ID,
		BuyerID:     buyer.ID,
		Description: svc.Title,
		Amount:      svc.Price,
	})
	if err != nil {
		if markErr := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentPending, domain.PaymentFailed, s.now()); markErr != nil {
			err = errors.Join(err, markErr)
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if err := s.payments.AttachIntent(ctx, payment.ID, s.gateway.Name(), intent.ProviderRef, now); err != nil {
		return nil, err
	}
	payment.ProviderRef = intent.ProviderRef
	payment.ClientSecret = intent.ClientSecret
	return payment, nil
}

// HandleWebhook applies a verified provider event. Replays and unknown
// references are accepted without changes.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		return err
	}
	target, ok := event.Type.TargetStatus()
	if !ok || event.ProviderRef == "" {
		return nil
	}
	payment, err := s.payments.FindByProviderRef(ctx, s.gateway.Name(), event.ProviderRef)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if payment.Status == target || !payment.Status.CanMoveTo(target) {
		return nil
	}
	err = s.payments.UpdateStatus(ctx, payment.ID, payment.Status, target, s.now())
	if errors.Is(err, domain.ErrConflict) {
		// a concurrent delivery already moved it
		return nil
	}
	if err != nil {
		return err
	}

	if target == domain.PaymentSucceeded {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:  payment.SellerID,
			Kind:    domain.NotifyPaymentSuccess,
			Subject: "New sale",
			Text: fmt.Sprintf("%s was purchased for %s %s; your payout is %s",
				payment.ServiceTitle, payment.Amount.String(), payment.Amount.Currency, payment.Payout.StringFixed(2)),
			Ref: payment.ID,
		})
	}
	return nil
}

func (s *paymentService) List(ctx context.Context, userID string, status domain.PaymentStatus, paging Paging) ([]domain.Payment, int64, error) {
	return s.payments.Find(ctx, PaymentFilter{PartyID: userID, Status: status}, paging)
}

// Get hides payments of other members behind ErrNotFound.
func (s *paymentService) Get(ctx context.Context, userID, id string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.IsParty(userID) {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}
