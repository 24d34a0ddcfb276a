package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// Clock returns the current time. Services default to time.Now in UTC.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// UserRepository persists accounts and serves profile search.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	TouchSignIn(ctx context.Context, id string, at time.Time) error
	// SetClassification writes only the classification, and genres when non-empty.
	SetClassification(ctx context.Context, id string, classification domain.Classification, genres []string, at time.Time) error
	Search(ctx context.Context, filter ProfileFilter, paging Paging) ([]domain.User, int64, error)
}

// MessageRepository stores direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	List(ctx context.Context, conversationID string, before *time.Time, limit int) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	MarkRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// SlotRepository stores availability and owns capacity bookkeeping.
// Reserve must increment BookedCount only while it is below Capacity.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) error
	FindByID(ctx context.Context, id string) (*domain.Slot, error)
	ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]domain.Slot, error)
	HasOverlap(ctx context.Context, professionalID string, start, end time.Time) (bool, error)
	// OverlapsEarlier reports whether a slot stored before this one overlaps it.
	OverlapsEarlier(ctx context.Context, slot domain.Slot) (bool, error)
	DeleteUnbooked(ctx context.Context, id string) error
	Reserve(ctx context.Context, id string) (*domain.Slot, error)
	Release(ctx context.Context, id string) error
}

// BookingRepository stores booking requests.
// UpdateStatus only succeeds while the stored status still equals from.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	HasActive(ctx context.Context, slotID, artistID string) (bool, error)
	Find(ctx context.Context, filter BookingFilter, paging Paging) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error
}

// ServiceRepository stores premium services.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.PremiumService) error
	FindByID(ctx context.Context, id string) (*domain.PremiumService, error)
	Update(ctx context.Context, svc *domain.PremiumService) error
	Find(ctx context.Context, filter ServiceFilter, paging Paging) ([]domain.PremiumService, int64, error)
}

// PaymentRepository stores purchases.
// UpdateStatus only succeeds while the stored status still equals from.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderRef(ctx context.Context, provider, ref string) (*domain.Payment, error)
	AttachIntent(ctx context.Context, id, provider, ref string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) error
	Find(ctx context.Context, filter PaymentFilter, paging Paging) ([]domain.Payment, int64, error)
}

// QuestionnaireRepository stores questionnaire submissions.
type QuestionnaireRepository interface {
	Create(ctx context.Context, resp *domain.QuestionnaireResponse) error
	Latest(ctx context.Context, artistID string) (*domain.QuestionnaireResponse, error)
}

// Principal is the authenticated caller carried by a bearer token.
type Principal struct {
	UserID    string
	Role      domain.Role
	Name      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed bearer token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Issue(user domain.User) (IssuedToken, error)
}

// TokenRevoker blacklists a single token until it would have expired.
type TokenRevoker interface {
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
}

// Notifier delivers notifications out of band. Implementations must not block
// the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.Notification) {}

// PresignedUpload is a signed, time-limited PUT target.
type PresignedUpload struct {
	UploadURL   string
	Method      string
	ObjectKey   string
	PublicURL   string
	ContentType string
	ExpiresAt   time.Time
}

// MediaStorage issues direct upload URLs to the object store.
type MediaStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

// IntentRequest is what a gateway needs to open a payment intent.
type IntentRequest struct {
	PaymentID   string
	ServiceID   string
	BuyerID     string
	Description string
	Amount      domain.Money
}

// Intent is the provider's handle for an open payment.
type Intent struct {
	ProviderRef  string
	ClientSecret string
}

// PaymentGateway talks to a payment provider.
// ParseEvent verifies the webhook signature before decoding.
type PaymentGateway interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error)
}

// ProfileFilter expresses profile search criteria.
type ProfileFilter struct {
	Role             domain.Role
	Genre            string
	Location         string
	Tier             domain.Tier
	ProfessionalType domain.ProfessionalType
	Keyword          string
}

// BookingFilter selects bookings by party, slot or status.
type BookingFilter struct {
	ArtistID       string
	ProfessionalID string
	SlotID         string
	Status         domain.BookingStatus
}

// ServiceFilter expresses catalogue search criteria.
type ServiceFilter struct {
	ProfessionalID  string
	Category        domain.ServiceCategory
	MaxPrice        *decimal.Decimal
	Keyword         string
	IncludeInactive bool
}

// PaymentFilter selects payments; PartyID matches either buyer or seller.
type PaymentFilter struct {
	PartyID string
	Status  domain.PaymentStatus
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

// AuthService covers sign-up, sign-in and sessions.
type AuthService interface {
	SignUp(ctx context.Context, cmd SignUpCommand) (*AuthResult, error)
	SignIn(ctx context.Context, cmd SignInCommand) (*AuthResult, error)
	SignOut(ctx context.Context, principal Principal) error
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// ProfileService covers public profiles and self-service edits.
type ProfileService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	Search(ctx context.Context, filter ProfileFilter, paging Paging) ([]domain.User, int64, error)
}

// UploadService issues presigned media uploads.
type UploadService interface {
	Presign(ctx context.Context, cmd PresignCommand) (*PresignedUpload, error)
}

// QuestionnaireService scores artists from their self-assessment.
type QuestionnaireService interface {
	Rules() *domain.ClassificationRules
	Submit(ctx context.Context, artistID string, answers domain.QuestionnaireAnswers) (*domain.QuestionnaireResponse, error)
	Latest(ctx context.Context, artistID string) (*domain.QuestionnaireResponse, error)
}

// MessageService covers direct messaging.
type MessageService interface {
	Send(ctx context.Context, cmd SendMessageCommand) (*domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	Messages(ctx context.Context, userID, counterpartID string, before *time.Time, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, userID, counterpartID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// BookingService covers availability slots and booking requests.
type BookingService interface {
	CreateSlot(ctx context.Context, cmd CreateSlotCommand) (*domain.Slot, error)
	ListSlots(ctx context.Context, professionalID string, day *time.Time) ([]domain.Slot, error)
	DeleteSlot(ctx context.Context, professionalID, slotID string) error
	RequestBooking(ctx context.Context, cmd RequestBookingCommand) (*domain.Booking, error)
	ChangeStatus(ctx context.Context, cmd ChangeBookingStatusCommand) (*domain.Booking, error)
	ListBookings(ctx context.Context, query BookingQuery, paging Paging) ([]domain.Booking, int64, error)
}

// CatalogService covers premium services.
type CatalogService interface {
	Create(ctx context.Context, professionalID string, draft domain.ServiceDraft) (*domain.PremiumService, error)
	Update(ctx context.Context, professionalID, id string, draft domain.ServiceDraft) (*domain.PremiumService, error)
	Deactivate(ctx context.Context, professionalID, id string) error
	Get(ctx context.Context, id string) (*domain.PremiumService, error)
	List(ctx context.Context, filter ServiceFilter, paging Paging) ([]domain.PremiumService, int64, error)
}

// PaymentService covers purchases and provider callbacks.
type PaymentService interface {
	Purchase(ctx context.Context, buyerID, serviceID string) (*domain.Payment, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	List(ctx context.Context, userID string, status domain.PaymentStatus, paging Paging) ([]domain.Payment, int64, error)
	Get(ctx context.Context, userID, id string) (*domain.Payment, error)
}

// SignUpCommand captures a registration.
type SignUpCommand struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// SignInCommand captures credentials.
type SignInCommand struct {
	Email    string
	Password string
}

// AuthResult is the signed-in user with their token.
type AuthResult struct {
	User  *domain.User
	Token IssuedToken
}

// PresignCommand asks for an upload target.
type PresignCommand struct {
	UserID      string
	Kind        string
	ContentType string
	FileName    string
}

// SendMessageCommand captures a new message.
type SendMessageCommand struct {
	SenderID    string
	RecipientID string
	Body        string
}

// CreateSlotCommand captures a new availability slot.
type CreateSlotCommand struct {
	ProfessionalID string
	StartsAt       time.Time
	EndsAt         time.Time
	Capacity       int
	Kind           string
	Notes          string
}

// RequestBookingCommand captures an artist's booking request.
type RequestBookingCommand struct {
	ArtistID string
	SlotID   string
	Note     string
}

// ChangeBookingStatusCommand captures a status change by a party.
type ChangeBookingStatusCommand struct {
	UserID    string
	BookingID string
	Status    domain.BookingStatus
}

// BookingQuery lists bookings from one side.
type BookingQuery struct {
	UserID string
	As     domain.Actor
	Status domain.BookingStatus
}
