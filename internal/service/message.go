package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
	"github.com/lagreelink/marketplace-server/internal/sse"
)

// Publisher pushes inbox events toward connected clients. *sse.Broker
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, profileID string, event sse.Event) error
}

type MessageService struct {
	db       TxRunner
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	broker   Publisher
}

func NewMessageService(
	db TxRunner,
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	broker Publisher,
) *MessageService {
	return &MessageService{
		db:       db,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		broker:   broker,
	}
}

// PostMessage appends to the conversation's log. The message row and the
// conversation's last_message_at bump commit together; the SSE publish is
// best effort since pollers re-read the thread anyway.
func (s *MessageService) PostMessage(ctx context.Context, conversationID, senderID, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.EmptyBody()
	}

	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv == nil {
		return nil, apperrors.NotFound("Conversation")
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperrors.Forbidden("sender is not a participant of this conversation")
	}

	var msg *model.Message
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		msg, txErr = s.msgRepo.Create(ctx, tx, model.CreateMessageParams{
			ConversationID: conversationID,
			SenderID:       senderID,
			Body:           body,
		})
		if txErr != nil {
			return txErr
		}
		return s.convRepo.TouchLastMessage(ctx, tx, conversationID, msg.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	log.Info().
		Str("messageId", msg.ID).
		Str("conversationId", conversationID).
		Str("senderId", senderID).
		Msg("message posted")

	event := sse.Event{Type: "message", Data: msg.ToEventData()}
	for _, participant := range []string{conv.UserA, conv.UserB} {
		if err := s.broker.Publish(ctx, participant, event); err != nil {
			log.Warn().Err(err).
				Str("profileId", participant).
				Str("messageId", msg.ID).
				Msg("failed to publish message event")
		}
	}

	return msg, nil
}

// ListMessages returns the thread in ascending send order, ties broken by
// message id. Each call is an independent snapshot read.
func (s *MessageService) ListMessages(ctx context.Context, conversationID, callerID string, limit, offset int) ([]model.Message, error) {
	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv == nil {
		return nil, apperrors.NotFound("Conversation")
	}
	if !conv.HasParticipant(callerID) {
		return nil, apperrors.Forbidden("caller is not a participant of this conversation")
	}

	msgs, err := s.msgRepo.FindByConversationID(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// InboxEntry is one row of a participant's inbox: the conversation plus its
// most recent message, if any.
type InboxEntry struct {
	Conversation model.Conversation `json:"conversation"`
	LastMessage  *model.Message     `json:"lastMessage,omitempty"`
}

func (s *MessageService) Inbox(ctx context.Context, profileID string, limit, offset int) ([]InboxEntry, error) {
	convs, err := s.convRepo.FindByParticipant(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	entries := make([]InboxEntry, 0, len(convs))
	for _, conv := range convs {
		last, err := s.msgRepo.FindLatestByConversationID(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("find latest message: %w", err)
		}
		entries = append(entries, InboxEntry{Conversation: conv, LastMessage: last})
	}
	return entries, nil
}
