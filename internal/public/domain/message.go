package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageRunes bounds a single message body.
const MaxMessageRunes = 4000

// Message is a direct message between two members.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	RecipientID    string
	Body           string
	ReadAt         *time.Time
	CreatedAt      time.Time
}

// Conversation summarises the thread between a user and one counterpart.
type Conversation struct {
	ID             string
	CounterpartID  string
	LastMessage    Message
	UnreadCount    int
	LastActivityAt time.Time
}

// ConversationID is the two participant IDs sorted and joined with ":".
func ConversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// CounterpartOf returns the other participant of a conversation ID.
func CounterpartOf(conversationID, userID string) string {
	parts := strings.SplitN(conversationID, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	if parts[0] == userID {
		return parts[1]
	}
	return parts[0]
}

// NewMessageBody trims and bounds a message body.
func NewMessageBody(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", Invalid("body", "must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageRunes {
		return "", Invalid("body", "must be at most %d characters", MaxMessageRunes)
	}
	return trimmed, nil
}

// Excerpt shortens a body for notifications.
func Excerpt(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "…"
}
