package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

type messageService struct {
	messages MessageRepository
	users    UserRepository
	notifier Notifier
	now      Clock
}

// NewMessageService wires direct messaging.
func NewMessageService(messages MessageRepository, users UserRepository, notifier Notifier, clock Clock) MessageService {
	if clock == nil {
		clock = systemClock
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &messageService{messages: messages, users: users, notifier: notifier, now: clock}
}

func (s *messageService) Send(ctx context.Context, cmd SendMessageCommand) (*domain.Message, error) {
	if cmd.RecipientID == "" {
		return nil, domain.Invalid("recipientId", "is required")
	}
	if cmd.SenderID == cmd.RecipientID {
		return nil, domain.Invalid("recipientId", "cannot message yourself")
	}
	body, err := domain.NewMessageBody(cmd.Body)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.FindByID(ctx, cmd.SenderID)
	if err != nil {
		return nil, err
	}
	if !sender.IsActive() {
		return nil, domain.ErrForbidden
	}
	recipient, err := s.users.FindByID(ctx, cmd.RecipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive() {
		return nil, domain.ErrNotFound
	}

	msg := &domain.Message{
		ConversationID: domain.ConversationID(sender.ID, recipient.ID),
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		Body:           body,
		CreatedAt:      s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, domain.Notification{
		UserID:  recipient.ID,
		Kind:    domain.NotifyNewMessage,
		Subject: "New message",
		Text:    fmt.Sprintf("%s: %s", sender.DisplayName, domain.Excerpt(body, 140)),
		Ref:     msg.ConversationID,
	})
	return msg, nil
}

func (s *messageService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.messages.Conversations(ctx, userID)
}

// Messages returns newest first, strictly older than before when set.
func (s *messageService) Messages(ctx context.Context, userID, counterpartID string, before *time.Time, limit int) ([]domain.Message, error) {
	if counterpartID == "" || counterpartID == userID {
		return nil, domain.Invalid("userId", "must name another member")
	}
	switch {
	case limit == 0:
		limit = defaultMessageLimit
	case limit < 0 || limit > maxMessageLimit:
		return nil, domain.Invalid("limit", "must be between 1 and %d", maxMessageLimit)
	}
	return s.messages.List(ctx, domain.ConversationID(userID, counterpartID), before, limit)
}

func (s *messageService) MarkRead(ctx context.Context, userID, counterpartID string) (int64, error) {
	if counterpartID == "" || counterpartID == userID {
		return 0, domain.Invalid("userId", "must name another member")
	}
	return s.messages.MarkRead(ctx, domain.ConversationID(userID, counterpartID), userID, s.now())
}

func (s *messageService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.messages.CountUnread(ctx, userID)
}
