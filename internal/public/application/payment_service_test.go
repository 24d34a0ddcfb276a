package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type paymentFixture struct {
	payments *MockPaymentRepository
	services *MockServiceRepository
	users    *MockUserRepository
	gateway  *MockPaymentGateway
	notifier *recordingNotifier
	svc      PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		payments: new(MockPaymentRepository),
		services: new(MockServiceRepository),
		users:    new(MockUserRepository),
		gateway:  new(MockPaymentGateway),
		notifier: &recordingNotifier{},
	}
	f.svc = NewPaymentService(PaymentConfig{
		Payments: f.payments, Services: f.services, Users: f.users, Gateway: f.gateway,
		Policy: domain.DefaultCommissionPolicy(), Notifier: f.notifier, Clock: fixedClock,
	})
	return f
}

func mixingService() *domain.PremiumService {
	price, _ := domain.NewServicePrice("150.00", "usd")
	return &domain.PremiumService{ID: "svc1", ProfessionalID: "pro", Title: "Mixing", Price: price, Active: true}
}

func TestPaymentService_Purchase(t *testing.T) {
	f := newPaymentFixture()
	f.users.On("FindByID", mock.Anything, "artist").Return(&domain.User{ID: "artist", Role: domain.RoleArtist}, nil)
	f.users.On("FindByID", mock.Anything, "pro").Return(&domain.User{ID: "pro", Role: domain.RoleProfessional, Plan: domain.PlanPremium}, nil)
	f.services.On("FindByID", mock.Anything, "svc1").Return(mixingService(), nil)
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Payment).ID = "pay1"
	}).Return(nil)
	f.gateway.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req IntentRequest) bool {
		return req.PaymentID == "pay1" && req.Amount.MinorUnits() == 15000
	})).Return(&Intent{ProviderRef: "pi_1", ClientSecret: "secret"}, nil)
	f.payments.On("AttachIntent", mock.Anything, "pay1", "sandbox", "pi_1", fixedNow).Return(nil)

	payment, err := f.svc.Purchase(context.Background(), "artist", "svc1")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, "pi_1", payment.ProviderRef)
	assert.Equal(t, "secret", payment.ClientSecret)
	assert.True(t, payment.Commission.Equal(decimal.RequireFromString("18")), payment.Commission.String())
	assert.True(t, payment.Payout.Equal(decimal.RequireFromString("132")), payment.Payout.String())
	f.payments.AssertExpectations(t)
}

func TestPaymentService_Purchase_GatewayFailureMarksFailed(t *testing.T) {
	f := newPaymentFixture()
	f.users.On("FindByID", mock.Anything, "artist").Return(&domain.User{ID: "artist", Role: domain.RoleArtist}, nil)
	f.users.On("FindByID", mock.Anything, "pro").Return(&domain.User{ID: "pro", Role: domain.RoleProfessional}, nil)
	f.services.On("FindByID", mock.Anything, "svc1").Return(mixingService(), nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Payment).ID = "pay1"
	}).Return(nil)
	gatewayErr := errors.New("card network down")
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, gatewayErr)
	f.payments.On("UpdateStatus", mock.Anything, "pay1", domain.PaymentPending, domain.PaymentFailed, fixedNow).Return(nil)

	_, err := f.svc.Purchase(context.Background(), "artist", "svc1")
	assert.ErrorIs(t, err, gatewayErr)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_Purchase_Rejects(t *testing.T) {
	t.Run("professional buyer", func(t *testing.T) {
		f := newPaymentFixture()
		f.users.On("FindByID", mock.Anything, "pro").Return(&domain.User{ID: "pro", Role: domain.RoleProfessional}, nil)
		_, err := f.svc.Purchase(context.Background(), "pro", "svc1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newPaymentFixture()
		f.users.On("FindByID", mock.Anything, "artist").Return(&domain.User{ID: "artist", Role: domain.RoleArtist}, nil)
		svc := mixingService()
		svc.Active = false
		f.services.On("FindByID", mock.Anything, "svc1").Return(svc, nil)
		_, err := f.svc.Purchase(context.Background(), "artist", "svc1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	payload := []byte(`{}`)
	pending := func() *domain.Payment {
		return &domain.Payment{ID: "pay1", SellerID: "pro", Status: domain.PaymentPending, Amount: mixingService().Price, Payout: decimal.NewFromInt(120)}
	}

	t.Run("success notifies seller", func(t *testing.T) {
		f := newPaymentFixture()
		f.gateway.On("ParseEvent", payload, "sig").Return(&domain.PaymentEvent{Type: domain.PaymentEventSucceeded, ProviderRef: "pi_1"}, nil)
		f.payments.On("FindByProviderRef", mock.Anything, "sandbox", "pi_1").Return(pending(), nil)
		f.payments.On("UpdateStatus", mock.Anything, "pay1", domain.PaymentPending, domain.PaymentSucceeded, fixedNow).Return(nil)

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		sent := f.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, "pro", sent[0].UserID)
		assert.Equal(t, domain.NotifyPaymentSuccess, sent[0].Kind)
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		f := newPaymentFixture()
		done := pending()
		done.Status = domain.PaymentSucceeded
		f.gateway.On("ParseEvent", payload, "sig").Return(&domain.PaymentEvent{Type: domain.PaymentEventSucceeded, ProviderRef: "pi_1"}, nil)
		f.payments.On("FindByProviderRef", mock.Anything, "sandbox", "pi_1").Return(done, nil)

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.all())
	})

	t.Run("refund of pending payment is ignored", func(t *testing.T) {
		f := newPaymentFixture()
		f.gateway.On("ParseEvent", payload, "sig").Return(&domain.PaymentEvent{Type: domain.PaymentEventRefunded, ProviderRef: "pi_1"}, nil)
		f.payments.On("FindByProviderRef", mock.Anything, "sandbox", "pi_1").Return(pending(), nil)

		require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
		f.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown reference is ignored", func(t *testing.T) {
		f := newPaymentFixture()
		f.gateway.On("ParseEvent", payload, "sig").Return(&domain.PaymentEvent{Type: domain.PaymentEventFailed, ProviderRef: "pi_x"}, nil)
		f.payments.On("FindByProviderRef", mock.Anything, "sandbox", "pi_x").Return(nil, domain.ErrNotFound)

		assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "sig"))
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newPaymentFixture()
		f.gateway.On("ParseEvent", payload, "bad").Return(nil, domain.Invalid("signature", "mismatch"))

		err := f.svc.HandleWebhook(context.Background(), payload, "bad")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestPaymentService_Get(t *testing.T) {
	f := newPaymentFixture()
	f.payments.On("FindByID", mock.Anything, "pay1").Return(&domain.Payment{ID: "pay1", BuyerID: "artist", SellerID: "pro"}, nil)

	_, err := f.svc.Get(context.Background(), "artist", "pay1")
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), "stranger", "pay1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
