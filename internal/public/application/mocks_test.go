package application

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetClassification(ctx context.Context, id string, classification domain.Classification, genres []string, at time.Time) error {
	args := m.Called(ctx, id, classification, genres, at)
	return args.Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, filter ProfileFilter, paging Paging) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) List(ctx context.Context, conversationID string, before *time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, before, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error) {
	args := m.Called(ctx, conversationID, recipientID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) FindByID(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]domain.Slot, error) {
	args := m.Called(ctx, professionalID, from, to)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) HasOverlap(ctx context.Context, professionalID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, professionalID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) OverlapsEarlier(ctx context.Context, slot domain.Slot) (bool, error) {
	args := m.Called(ctx, slot)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) DeleteUnbooked(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) Reserve(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Release(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) HasActive(ctx context.Context, slotID, artistID string) (bool, error) {
	args := m.Called(ctx, slotID, artistID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) Find(ctx context.Context, filter BookingFilter, paging Paging) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, svc *domain.PremiumService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id string) (*domain.PremiumService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PremiumService), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, svc *domain.PremiumService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) Find(ctx context.Context, filter ServiceFilter, paging Paging) ([]domain.PremiumService, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.PremiumService), args.Get(1).(int64), args.Error(2)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByProviderRef(ctx context.Context, provider, ref string) (*domain.Payment, error) {
	args := m.Called(ctx, provider, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) AttachIntent(ctx context.Context, id, provider, ref string, at time.Time) error {
	args := m.Called(ctx, id, provider, ref, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) Find(ctx context.Context, filter PaymentFilter, paging Paging) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}

type MockQuestionnaireRepository struct {
	mock.Mock
}

func (m *MockQuestionnaireRepository) Create(ctx context.Context, resp *domain.QuestionnaireResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) Latest(ctx context.Context, artistID string) (*domain.QuestionnaireResponse, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionnaireResponse), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user domain.User) (IssuedToken, error) {
	args := m.Called(user)
	return args.Get(0).(IssuedToken), args.Error(1)
}

type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	args := m.Called(ctx, key, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PresignedUpload), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Name() string {
	return "sandbox"
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intent), args.Error(1)
}

func (m *MockPaymentGateway) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEvent), args.Error(1)
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.sent...)
}
