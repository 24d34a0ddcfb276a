package client

import "time"

type Links struct {
	Website    string `json:"website,omitempty"`
	Spotify    string `json:"spotify,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	YouTube    string `json:"youtube,omitempty"`
	SoundCloud string `json:"soundcloud,omitempty"`
}

type Classification struct {
	Tier      string    `json:"tier"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public view of a member.
type Profile struct {
	ID               string          `json:"id"`
	Role             string          `json:"role"`
	DisplayName      string          `json:"displayName"`
	Bio              string          `json:"bio,omitempty"`
	Genres           []string        `json:"genres"`
	Location         string          `json:"location,omitempty"`
	AvatarURL        string          `json:"avatarUrl,omitempty"`
	Links            Links           `json:"links"`
	ProfessionalType string          `json:"professionalType,omitempty"`
	Company          string          `json:"company,omitempty"`
	Classification   *Classification `json:"classification,omitempty"`
	Plan             string          `json:"plan"`
	Verified         bool            `json:"verified"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Account is the caller's own profile with private fields.
type Account struct {
	Profile
	Email        string     `json:"email"`
	Status       string     `json:"status"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Account   `json:"user"`
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName      *string   `json:"displayName,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Genres           *[]string `json:"genres,omitempty"`
	Location         *string   `json:"location,omitempty"`
	AvatarURL        *string   `json:"avatarUrl,omitempty"`
	Links            *Links    `json:"links,omitempty"`
	ProfessionalType *string   `json:"professionalType,omitempty"`
	Company          *string   `json:"company,omitempty"`
}

// ProfileQuery filters GET /profiles. Zero values are omitted.
type ProfileQuery struct {
	Role             string
	Genre            string
	Location         string
	Keyword          string
	Tier             string
	ProfessionalType string
	Sort             string
	Page             int
	Limit            int
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	RecipientID    string     `json:"recipientId"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Conversation struct {
	ID             string    `json:"id"`
	CounterpartID  string    `json:"counterpartId"`
	LastMessage    Message   `json:"lastMessage"`
	UnreadCount    int       `json:"unreadCount"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

type Booking struct {
	ID             string    `json:"id"`
	SlotID         string    `json:"slotId"`
	ProfessionalID string    `json:"professionalId"`
	ArtistID       string    `json:"artistId"`
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
	SlotStartsAt   time.Time `json:"slotStartsAt"`
	SlotEndsAt     time.Time `json:"slotEndsAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Payment amounts are decimal strings, e.g. "49.00".
type Payment struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"serviceId"`
	ServiceTitle   string    `json:"serviceTitle,omitempty"`
	BuyerID        string    `json:"buyerId"`
	SellerID       string    `json:"sellerId"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	CommissionRate string    `json:"commissionRate"`
	Commission     string    `json:"commission"`
	Payout         string    `json:"payout"`
	Status         string    `json:"status"`
	Provider       string    `json:"provider,omitempty"`
	ClientSecret   string    `json:"clientSecret,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
