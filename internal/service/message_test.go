package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lagreelink/marketplace-server/internal/database"
	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/sse"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockMessageRepo) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *mockMessageRepo) FindLatestByConversationID(ctx context.Context, conversationID string) (*model.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockMessageRepo) Create(ctx context.Context, q database.DBTX, params model.CreateMessageParams) (*model.Message, error) {
	args := m.Called(ctx, q, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockMessageRepo) CountByConversationID(ctx context.Context, conversationID string) (int, error) {
	args := m.Called(ctx, conversationID)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, profileID string, event sse.Event) error {
	args := m.Called(ctx, profileID, event)
	return args.Error(0)
}

func TestMessageService_PostMessage(t *testing.T) {
	ctx := context.Background()
	conv := &model.Conversation{ID: "conv-1", UserA: "u1", UserB: "u2"}

	t.Run("posts and notifies both participants", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		pub := new(mockPublisher)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, pub)

		msg := &model.Message{
			ID:             "msg-1",
			ConversationID: "conv-1",
			SenderID:       "u1",
			Body:           "hello",
			CreatedAt:      time.Now(),
		}

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		msgRepo.On("Create", ctx, mock.Anything, model.CreateMessageParams{
			ConversationID: "conv-1",
			SenderID:       "u1",
			Body:           "hello",
		}).Return(msg, nil)
		convRepo.On("TouchLastMessage", ctx, mock.Anything, "conv-1", msg.CreatedAt).Return(nil)
		pub.On("Publish", ctx, "u1", mock.Anything).Return(nil)
		pub.On("Publish", ctx, "u2", mock.Anything).Return(nil)

		got, err := svc.PostMessage(ctx, "conv-1", "u1", "hello")
		require.NoError(t, err)
		assert.Equal(t, msg, got)
		convRepo.AssertExpectations(t)
		msgRepo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		pub := new(mockPublisher)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, pub)

		msg := &model.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "u1", Body: "hello"}
		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		msgRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(p model.CreateMessageParams) bool {
			return p.Body == "hello"
		})).Return(msg, nil)
		convRepo.On("TouchLastMessage", ctx, mock.Anything, "conv-1", mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.PostMessage(ctx, "conv-1", "u1", "  hello \n")
		require.NoError(t, err)
		msgRepo.AssertExpectations(t)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, new(mockPublisher))

		_, err := svc.PostMessage(ctx, "conv-1", "u1", "   \t\n")
		assert.Equal(t, apperrors.ErrCodeEmptyBody, apperrors.GetCode(err))
		convRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown conversation", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, new(mockMessageRepo), new(mockPublisher))

		convRepo.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := svc.PostMessage(ctx, "missing", "u1", "hello")
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("rejects non-participant sender", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, new(mockPublisher))

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)

		_, err := svc.PostMessage(ctx, "conv-1", "intruder", "hello")
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		pub := new(mockPublisher)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, pub)

		msg := &model.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "u1", Body: "hello"}
		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		msgRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(msg, nil)
		convRepo.On("TouchLastMessage", ctx, mock.Anything, "conv-1", mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		got, err := svc.PostMessage(ctx, "conv-1", "u1", "hello")
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	})
}

func TestMessageService_ListMessages(t *testing.T) {
	ctx := context.Background()
	conv := &model.Conversation{ID: "conv-1", UserA: "u1", UserB: "u2"}

	t.Run("returns thread in send order", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, new(mockPublisher))

		base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
		thread := []model.Message{
			{ID: "m1", ConversationID: "conv-1", SenderID: "u1", Body: "first", CreatedAt: base},
			{ID: "m2", ConversationID: "conv-1", SenderID: "u2", Body: "second", CreatedAt: base.Add(time.Minute)},
			{ID: "m3", ConversationID: "conv-1", SenderID: "u1", Body: "third", CreatedAt: base.Add(2 * time.Minute)},
		}

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		msgRepo.On("FindByConversationID", ctx, "conv-1", 50, 0).Return(thread, nil)

		got, err := svc.ListMessages(ctx, "conv-1", "u2", 50, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "m1", got[0].ID)
		assert.Equal(t, "m2", got[1].ID)
		assert.Equal(t, "m3", got[2].ID)
	})

	t.Run("rejects non-participant reader", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, new(mockPublisher))

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)

		_, err := svc.ListMessages(ctx, "conv-1", "intruder", 50, 0)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		msgRepo.AssertNotCalled(t, "FindByConversationID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown conversation is not found", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, new(mockMessageRepo), new(mockPublisher))

		convRepo.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := svc.ListMessages(ctx, "missing", "u1", 50, 0)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestMessageService_Inbox(t *testing.T) {
	ctx := context.Background()

	t.Run("pairs each conversation with its latest message", func(t *testing.T) {
		convRepo := new(mockConversationRepo)
		msgRepo := new(mockMessageRepo)
		svc := NewMessageService(fakeTxRunner{}, convRepo, msgRepo, new(mockPublisher))

		convs := []model.Conversation{
			{ID: "conv-1", UserA: "u1", UserB: "u2"},
			{ID: "conv-2", UserA: "u1", UserB: "u3"},
		}
		latest := &model.Message{ID: "m9", ConversationID: "conv-1", Body: "see you then"}

		convRepo.On("FindByParticipant", ctx, "u1", 50, 0).Return(convs, nil)
		msgRepo.On("FindLatestByConversationID", ctx, "conv-1").Return(latest, nil)
		msgRepo.On("FindLatestByConversationID", ctx, "conv-2").Return(nil, nil)

		entries, err := svc.Inbox(ctx, "u1", 50, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, latest, entries[0].LastMessage)
		assert.Nil(t, entries[1].LastMessage)
	})
}
