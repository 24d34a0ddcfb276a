package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDocument is the users collection schema. Artists and professionals share it.
type UserDocument struct {
	ID               primitive.ObjectID      `bson:"_id"`
	Email            string                  `bson:"email"`
	PasswordHash     string                  `bson:"passwordHash"`
	Role             string                  `bson:"role"`
	DisplayName      string                  `bson:"displayName"`
	DisplayNameLower string                  `bson:"displayNameLower"`
	Bio              string                  `bson:"bio,omitempty"`
	Genres           []string                `bson:"genres,omitempty"`
	Location         string                  `bson:"location,omitempty"`
	AvatarURL        string                  `bson:"avatarUrl,omitempty"`
	Links            LinksDocument           `bson:"links,omitempty"`
	ProfessionalType string                  `bson:"professionalType,omitempty"`
	Company          string                  `bson:"company,omitempty"`
	Classification   *ClassificationDocument `bson:"classification,omitempty"`
	Plan             string                  `bson:"plan"`
	Status           string                  `bson:"status"`
	Verified         bool                    `bson:"verified"`
	CreatedAt        time.Time               `bson:"createdAt"`
	UpdatedAt        time.Time               `bson:"updatedAt"`
	LastSignInAt     *time.Time              `bson:"lastSignInAt,omitempty"`
}

// LinksDocument holds a profile's external links.
type LinksDocument struct {
	Website    string `bson:"website,omitempty"`
	Spotify    string `bson:"spotify,omitempty"`
	Instagram  string `bson:"instagram,omitempty"`
	YouTube    string `bson:"youtube,omitempty"`
	SoundCloud string `bson:"soundcloud,omitempty"`
}

// ClassificationDocument is embedded in users and questionnaire responses.
type ClassificationDocument struct {
	Tier      string    `bson:"tier"`
	Score     int       `bson:"score"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MessageDocument is one direct message.
type MessageDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	ConversationID string             `bson:"conversationId"`
	SenderID       string             `bson:"senderId"`
	RecipientID    string             `bson:"recipientId"`
	Body           string             `bson:"body"`
	ReadAt         *time.Time         `bson:"readAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

// SlotDocument is an availability slot with its capacity counter.
type SlotDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	ProfessionalID string             `bson:"professionalId"`
	StartsAt       time.Time          `bson:"startsAt"`
	EndsAt         time.Time          `bson:"endsAt"`
	Capacity       int                `bson:"capacity"`
	BookedCount    int                `bson:"bookedCount"`
	Kind           string             `bson:"kind"`
	Notes          string             `bson:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

// BookingDocument denormalises the slot window so transitions need no join.
type BookingDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	SlotID         string             `bson:"slotId"`
	ProfessionalID string             `bson:"professionalId"`
	ArtistID       string             `bson:"artistId"`
	Status         string             `bson:"status"`
	Note           string             `bson:"note,omitempty"`
	SlotStartsAt   time.Time          `bson:"slotStartsAt"`
	SlotEndsAt     time.Time          `bson:"slotEndsAt"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// ServiceDocument is a premium service. Price is stored as Decimal128.
type ServiceDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	ProfessionalID string               `bson:"professionalId"`
	Title          string               `bson:"title"`
	Description    string               `bson:"description,omitempty"`
	Category       string               `bson:"category"`
	Price          primitive.Decimal128 `bson:"price"`
	Currency       string               `bson:"currency"`
	DeliveryDays   int                  `bson:"deliveryDays"`
	Active         bool                 `bson:"active"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

// PaymentDocument records a purchase and its commission split.
type PaymentDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	ServiceID      string               `bson:"serviceId"`
	ServiceTitle   string               `bson:"serviceTitle"`
	BuyerID        string               `bson:"buyerId"`
	SellerID       string               `bson:"sellerId"`
	Amount         primitive.Decimal128 `bson:"amount"`
	Currency       string               `bson:"currency"`
	CommissionRate primitive.Decimal128 `bson:"commissionRate"`
	Commission     primitive.Decimal128 `bson:"commission"`
	Payout         primitive.Decimal128 `bson:"payout"`
	Status         string               `bson:"status"`
	Provider       string               `bson:"provider"`
	ProviderRef    string               `bson:"providerRef,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

// QuestionnaireDocument is one questionnaire submission.
type QuestionnaireDocument struct {
	ID               primitive.ObjectID     `bson:"_id"`
	ArtistID         string                 `bson:"artistId"`
	YearsActive      int                    `bson:"yearsActive"`
	ReleasesCount    int                    `bson:"releasesCount"`
	MonthlyListeners int                    `bson:"monthlyListeners"`
	LiveShowsPerYear int                    `bson:"liveShowsPerYear"`
	SocialFollowers  int                    `bson:"socialFollowers"`
	HasManagement    bool                   `bson:"hasManagement"`
	HasLabel         bool                   `bson:"hasLabel"`
	Goals            []string               `bson:"goals,omitempty"`
	Genres           []string               `bson:"genres,omitempty"`
	Classification   ClassificationDocument `bson:"classification"`
	SubmittedAt      time.Time              `bson:"submittedAt"`
}

// FailedNotificationDocument is a notification the messenger gateway rejected.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Destination string             `bson:"destination"`
	Kind        string             `bson:"kind,omitempty"`
	Text        string             `bson:"text"`
	Ref         string             `bson:"ref,omitempty"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
}
