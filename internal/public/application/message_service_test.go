package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func TestMessageService_Send(t *testing.T) {
	messages := new(MockMessageRepository)
	users := new(MockUserRepository)
	notifier := &recordingNotifier{}
	svc := NewMessageService(messages, users, notifier, fixedClock)

	users.On("FindByID", mock.Anything, "b").Return(&domain.User{ID: "b", DisplayName: "Bea"}, nil)
	users.On("FindByID", mock.Anything, "a").Return(&domain.User{ID: "a", DisplayName: "Al"}, nil)
	messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.ConversationID == "a:b" && m.SenderID == "b" && m.Body == "hello"
	})).Return(nil)

	msg, err := svc.Send(context.Background(), SendMessageCommand{SenderID: "b", RecipientID: "a", Body: "  hello "})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, msg.CreatedAt)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "a", sent[0].UserID)
	assert.True(t, strings.HasPrefix(sent[0].Text, "Bea: "))
}

func TestMessageService_Send_Rejects(t *testing.T) {
	messages := new(MockMessageRepository)
	users := new(MockUserRepository)
	svc := NewMessageService(messages, users, nil, fixedClock)

	_, err := svc.Send(context.Background(), SendMessageCommand{SenderID: "a", RecipientID: "a", Body: "hi"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Send(context.Background(), SendMessageCommand{SenderID: "a", RecipientID: "b", Body: " "})
	assert.True(t, domain.IsValidation(err))

	users.On("FindByID", mock.Anything, "a").Return(&domain.User{ID: "a"}, nil)
	users.On("FindByID", mock.Anything, "gone").Return(&domain.User{ID: "gone", Status: domain.UserSuspended}, nil)
	_, err = svc.Send(context.Background(), SendMessageCommand{SenderID: "a", RecipientID: "gone", Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageService_Messages(t *testing.T) {
	messages := new(MockMessageRepository)
	svc := NewMessageService(messages, new(MockUserRepository), nil, fixedClock)
	before := fixedNow.Add(-time.Hour)

	messages.On("List", mock.Anything, "a:b", (*time.Time)(nil), 50).Return([]domain.Message{}, nil)
	messages.On("List", mock.Anything, "a:b", &before, 10).Return([]domain.Message{{ID: "m1"}}, nil)

	_, err := svc.Messages(context.Background(), "b", "a", nil, 0)
	require.NoError(t, err)
	got, err := svc.Messages(context.Background(), "a", "b", &before, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Messages(context.Background(), "a", "b", nil, 101)
	assert.True(t, domain.IsValidation(err))
}

func TestMessageService_MarkRead(t *testing.T) {
	messages := new(MockMessageRepository)
	svc := NewMessageService(messages, new(MockUserRepository), nil, fixedClock)
	messages.On("MarkRead", mock.Anything, "a:b", "b", fixedNow).Return(int64(3), nil)

	n, err := svc.MarkRead(context.Background(), "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
