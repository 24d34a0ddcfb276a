package public

import (
	"encoding/json"
	"time"

	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type signUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=80"`
	Role        string `json:"role" validate:"required,oneof=artist professional"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type linksRequest struct {
	Website    string `json:"website"`
	Spotify    string `json:"spotify"`
	Instagram  string `json:"instagram"`
	YouTube    string `json:"youtube"`
	SoundCloud string `json:"soundcloud"`
}

type profilePatchRequest struct {
	DisplayName      *string       `json:"displayName" validate:"omitempty,max=80"`
	Bio              *string       `json:"bio"`
	Genres           *[]string     `json:"genres"`
	Location         *string       `json:"location"`
	AvatarURL        *string       `json:"avatarUrl"`
	Links            *linksRequest `json:"links"`
	ProfessionalType *string       `json:"professionalType"`
	Company          *string       `json:"company"`
}

func (p profilePatchRequest) toDomain() (domain.ProfilePatch, error) {
	patch := domain.ProfilePatch{
		DisplayName:      p.DisplayName,
		Bio:              p.Bio,
		Location:         p.Location,
		AvatarURL:        p.AvatarURL,
		ProfessionalType: p.ProfessionalType,
		Company:          p.Company,
	}
	if p.Genres != nil {
		patch.Genres = *p.Genres
		patch.GenresSet = true
	}
	if p.Links != nil {
		links, err := domain.NewLinks(p.Links.Website, p.Links.Spotify, p.Links.Instagram, p.Links.YouTube, p.Links.SoundCloud)
		if err != nil {
			return domain.ProfilePatch{}, err
		}
		patch.Links = &links
	}
	return patch, nil
}

type presignRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=avatar portfolio"`
	ContentType string `json:"contentType" validate:"required"`
	FileName    string `json:"fileName" validate:"max=255"`
}

type questionnaireRequest struct {
	YearsActive      int      `json:"yearsActive" validate:"gte=0"`
	ReleasesCount    int      `json:"releasesCount" validate:"gte=0"`
	MonthlyListeners int      `json:"monthlyListeners" validate:"gte=0"`
	LiveShowsPerYear int      `json:"liveShowsPerYear" validate:"gte=0"`
	SocialFollowers  int      `json:"socialFollowers" validate:"gte=0"`
	HasManagement    bool     `json:"hasManagement"`
	HasLabel         bool     `json:"hasLabel"`
	Goals            []string `json:"goals"`
	Genres           []string `json:"genres" validate:"max=10"`
}

func (q questionnaireRequest) toDomain() domain.QuestionnaireAnswers {
	return domain.QuestionnaireAnswers{
		YearsActive:      q.YearsActive,
		ReleasesCount:    q.ReleasesCount,
		MonthlyListeners: q.MonthlyListeners,
		LiveShowsPerYear: q.LiveShowsPerYear,
		SocialFollowers:  q.SocialFollowers,
		HasManagement:    q.HasManagement,
		HasLabel:         q.HasLabel,
		Goals:            q.Goals,
		Genres:           q.Genres,
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

type createSlotRequest struct {
	StartsAt time.Time `json:"startsAt" validate:"required"`
	EndsAt   time.Time `json:"endsAt" validate:"required"`
	Capacity int       `json:"capacity" validate:"required,gte=1,lte=50"`
	Kind     string    `json:"kind"`
	Notes    string    `json:"notes"`
}

type bookingRequest struct {
	Note string `json:"note"`
}

type bookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected cancelled completed"`
}

type serviceRequest struct {
	Title        string      `json:"title" validate:"required"`
	Description  string      `json:"description"`
	Category     string      `json:"category" validate:"required"`
	Price        json.Number `json:"price" validate:"required"`
	Currency     string      `json:"currency"`
	DeliveryDays int         `json:"deliveryDays" validate:"required,gte=1,lte=90"`
}

func (s serviceRequest) toDraft() domain.ServiceDraft {
	return domain.ServiceDraft{
		Title:        s.Title,
		Description:  s.Description,
		Category:     s.Category,
		Price:        s.Price.String(),
		Currency:     s.Currency,
		DeliveryDays: s.DeliveryDays,
	}
}

type linksResponse struct {
	Website    string `json:"website,omitempty"`
	Spotify    string `json:"spotify,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	YouTube    string `json:"youtube,omitempty"`
	SoundCloud string `json:"soundcloud,omitempty"`
}

type classificationResponse struct {
	Tier      domain.Tier `json:"tier"`
	Score     int         `json:"score"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type ProfileResponse struct {
	ID               string                  `json:"id"`
	Role             domain.Role             `json:"role"`
	DisplayName      string                  `json:"displayName"`
	Bio              string                  `json:"bio,omitempty"`
	Genres           []string                `json:"genres"`
	Location         string                  `json:"location,omitempty"`
	AvatarURL        string                  `json:"avatarUrl,omitempty"`
	Links            linksResponse           `json:"links"`
	ProfessionalType string                  `json:"professionalType,omitempty"`
	Company          string                  `json:"company,omitempty"`
	Classification   *classificationResponse `json:"classification,omitempty"`
	Plan             domain.Plan             `json:"plan"`
	Verified         bool                    `json:"verified"`
	CreatedAt        time.Time               `json:"createdAt"`
}

type AccountResponse struct {
	ProfileResponse
	Email        string            `json:"email"`
	Status       domain.UserStatus `json:"status"`
	LastSignInAt *time.Time        `json:"lastSignInAt,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// BuildProfileResponse renders the public view of u; it never carries credentials.
func BuildProfileResponse(u domain.User) ProfileResponse {
	resp := ProfileResponse{
		ID:          u.ID,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Genres:      append([]string{}, u.Genres...),
		Location:    u.Location,
		AvatarURL:   u.AvatarURL.String(),
		Links: linksResponse{
			Website:    u.Links.Website.String(),
			Spotify:    u.Links.Spotify.String(),
			Instagram:  u.Links.Instagram.String(),
			YouTube:    u.Links.YouTube.String(),
			SoundCloud: u.Links.SoundCloud.String(),
		},
		ProfessionalType: string(u.ProfessionalType),
		Company:          u.Company,
		Plan:             u.Plan,
		Verified:         u.Verified,
		CreatedAt:        u.CreatedAt,
	}
	if u.Classification != nil {
		resp.Classification = &classificationResponse{
			Tier:      u.Classification.Tier,
			Score:     u.Classification.Score,
			UpdatedAt: u.Classification.UpdatedAt,
		}
	}
	return resp
}

// BuildAccountResponse renders u for its owner or an admin.
func BuildAccountResponse(u domain.User) AccountResponse {
	return AccountResponse{
		ProfileResponse: BuildProfileResponse(u),
		Email:           u.Email.String(),
		Status:          u.Status,
		LastSignInAt:    u.LastSignInAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      AccountResponse `json:"user"`
}

func buildAuthResponse(res *publicapp.AuthResult) authResponse {
	return authResponse{
		Token:     res.Token.Token,
		ExpiresAt: res.Token.ExpiresAt,
		User:      BuildAccountResponse(*res.User),
	}
}

type verifyResponse struct {
	UserID    string      `json:"userId"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name,omitempty"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type uploadResponse struct {
	UploadURL   string    `json:"uploadUrl"`
	Method      string    `json:"method"`
	ObjectKey   string    `json:"objectKey"`
	PublicURL   string    `json:"publicUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type questionnaireResponse struct {
	ID             string                 `json:"id"`
	Answers        questionnaireRequest   `json:"answers"`
	Classification classificationResponse `json:"classification"`
	SubmittedAt    time.Time              `json:"submittedAt"`
}

func buildQuestionnaireResponse(r domain.QuestionnaireResponse) questionnaireResponse {
	a := r.Answers
	return questionnaireResponse{
		ID: r.ID,
		Answers: questionnaireRequest{
			YearsActive:      a.YearsActive,
			ReleasesCount:    a.ReleasesCount,
			MonthlyListeners: a.MonthlyListeners,
			LiveShowsPerYear: a.LiveShowsPerYear,
			SocialFollowers:  a.SocialFollowers,
			HasManagement:    a.HasManagement,
			HasLabel:         a.HasLabel,
			Goals:            append([]string{}, a.Goals...),
			Genres:           append([]string{}, a.Genres...),
		},
		Classification: classificationResponse{
			Tier:      r.Classification.Tier,
			Score:     r.Classification.Score,
			UpdatedAt: r.Classification.UpdatedAt,
		},
		SubmittedAt: r.SubmittedAt,
	}
}

type questionsResponse struct {
	MaxScore int                         `json:"maxScore"`
	Rules    *domain.ClassificationRules `json:"rules"`
}

type messageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	RecipientID    string     `json:"recipientId"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func buildMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		Body:           m.Body,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

type conversationResponse struct {
	ID             string          `json:"id"`
	CounterpartID  string          `json:"counterpartId"`
	LastMessage    messageResponse `json:"lastMessage"`
	UnreadCount    int             `json:"unreadCount"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
}

func buildConversationResponse(c domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:             c.ID,
		CounterpartID:  c.CounterpartID,
		LastMessage:    buildMessageResponse(c.LastMessage),
		UnreadCount:    c.UnreadCount,
		LastActivityAt: c.LastActivityAt,
	}
}

type slotResponse struct {
	ID             string          `json:"id"`
	ProfessionalID string          `json:"professionalId"`
	StartsAt       time.Time       `json:"startsAt"`
	EndsAt         time.Time       `json:"endsAt"`
	Capacity       int             `json:"capacity"`
	BookedCount    int             `json:"bookedCount"`
	Remaining      int             `json:"remaining"`
	Kind           domain.SlotKind `json:"kind"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func buildSlotResponse(s domain.Slot) slotResponse {
	return slotResponse{
		ID:             s.ID,
		ProfessionalID: s.ProfessionalID,
		StartsAt:       s.StartsAt,
		EndsAt:         s.EndsAt,
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		Remaining:      s.Remaining(),
		Kind:           s.Kind,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
	}
}

type bookingResponse struct {
	ID             string               `json:"id"`
	SlotID         string               `json:"slotId"`
	ProfessionalID string               `json:"professionalId"`
	ArtistID       string               `json:"artistId"`
	Status         domain.BookingStatus `json:"status"`
	Note           string               `json:"note,omitempty"`
	SlotStartsAt   time.Time            `json:"slotStartsAt"`
	SlotEndsAt     time.Time            `json:"slotEndsAt"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func buildBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		SlotID:         b.SlotID,
		ProfessionalID: b.ProfessionalID,
		ArtistID:       b.ArtistID,
		Status:         b.Status,
		Note:           b.Note,
		SlotStartsAt:   b.SlotStartsAt,
		SlotEndsAt:     b.SlotEndsAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

type serviceResponse struct {
	ID             string                 `json:"id"`
	ProfessionalID string                 `json:"professionalId"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Category       domain.ServiceCategory `json:"category"`
	Price          string                 `json:"price"`
	Currency       string                 `json:"currency"`
	DeliveryDays   int                    `json:"deliveryDays"`
	Active         bool                   `json:"active"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

func buildServiceResponse(s domain.PremiumService) serviceResponse {
	return serviceResponse{
		ID:             s.ID,
		ProfessionalID: s.ProfessionalID,
		Title:          s.Title,
		Description:    s.Description,
		Category:       s.Category,
		Price:          s.Price.String(),
		Currency:       s.Price.Currency,
		DeliveryDays:   s.DeliveryDays,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type PaymentResponse struct {
	ID             string               `json:"id"`
	ServiceID      string               `json:"serviceId"`
	ServiceTitle   string               `json:"serviceTitle,omitempty"`
	BuyerID        string               `json:"buyerId"`
	SellerID       string               `json:"sellerId"`
	Amount         string               `json:"amount"`
	Currency       string               `json:"currency"`
	CommissionRate string               `json:"commissionRate"`
	Commission     string               `json:"commission"`
	Payout         string               `json:"payout"`
	Status         domain.PaymentStatus `json:"status"`
	Provider       string               `json:"provider,omitempty"`
	ClientSecret   string               `json:"clientSecret,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// BuildPaymentResponse renders p; the client secret is only filled by Purchase.
func BuildPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		ServiceID:      p.ServiceID,
		ServiceTitle:   p.ServiceTitle,
		BuyerID:        p.BuyerID,
		SellerID:       p.SellerID,
		Amount:         p.Amount.String(),
		Currency:       p.Amount.Currency,
		CommissionRate: p.CommissionRate.String(),
		Commission:     p.Commission.StringFixed(2),
		Payout:         p.Payout.StringFixed(2),
		Status:         p.Status,
		Provider:       p.Provider,
		ClientSecret:   p.ClientSecret,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
