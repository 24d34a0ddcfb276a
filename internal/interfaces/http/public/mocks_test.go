package public

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) SignUp(ctx context.Context, cmd publicapp.SignUpCommand) (*publicapp.AuthResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publicapp.AuthResult), args.Error(1)
}

func (m *mockAuthService) SignIn(ctx context.Context, cmd publicapp.SignInCommand) (*publicapp.AuthResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publicapp.AuthResult), args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, principal publicapp.Principal) error {
	return m.Called(ctx, principal).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) Get(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockProfileService) Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockProfileService) Search(ctx context.Context, filter publicapp.ProfileFilter, paging publicapp.Paging) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type mockMessageService struct{ mock.Mock }

func (m *mockMessageService) Send(ctx context.Context, cmd publicapp.SendMessageCommand) (*domain.Message, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *mockMessageService) Messages(ctx context.Context, userID, counterpartID string, before *time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, userID, counterpartID, before, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockMessageService) MarkRead(ctx context.Context, userID, counterpartID string) (int64, error) {
	args := m.Called(ctx, userID, counterpartID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockBookingService struct{ mock.Mock }

func (m *mockBookingService) CreateSlot(ctx context.Context, cmd publicapp.CreateSlotCommand) (*domain.Slot, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *mockBookingService) ListSlots(ctx context.Context, professionalID string, day *time.Time) ([]domain.Slot, error) {
	args := m.Called(ctx, professionalID, day)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *mockBookingService) DeleteSlot(ctx context.Context, professionalID, slotID string) error {
	return m.Called(ctx, professionalID, slotID).Error(0)
}

func (m *mockBookingService) RequestBooking(ctx context.Context, cmd publicapp.RequestBookingCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingService) ChangeStatus(ctx context.Context, cmd publicapp.ChangeBookingStatusCommand) (*domain.Booking, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, query publicapp.BookingQuery, paging publicapp.Paging) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, query, paging)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) Create(ctx context.Context, professionalID string, draft domain.ServiceDraft) (*domain.PremiumService, error) {
	args := m.Called(ctx, professionalID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PremiumService), args.Error(1)
}

func (m *mockCatalogService) Update(ctx context.Context, professionalID, id string, draft domain.ServiceDraft) (*domain.PremiumService, error) {
	args := m.Called(ctx, professionalID, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PremiumService), args.Error(1)
}

func (m *mockCatalogService) Deactivate(ctx context.Context, professionalID, id string) error {
	return m.Called(ctx, professionalID, id).Error(0)
}

func (m *mockCatalogService) Get(ctx context.Context, id string) (*domain.PremiumService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PremiumService), args.Error(1)
}

func (m *mockCatalogService) List(ctx context.Context, filter publicapp.ServiceFilter, paging publicapp.Paging) ([]domain.PremiumService, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.PremiumService), args.Get(1).(int64), args.Error(2)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) Purchase(ctx context.Context, buyerID, serviceID string) (*domain.Payment, error) {
	args := m.Called(ctx, buyerID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

func (m *mockPaymentService) List(ctx context.Context, userID string, status domain.PaymentStatus, paging publicapp.Paging) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, userID, status, paging)
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *mockPaymentService) Get(ctx context.Context, userID, id string) (*domain.Payment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
