package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
)

// PairKey canonicalizes an unordered participant pair. Lookup by pair is a
// point query on the unique key instead of a participant scan.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a, b)
}

type ConversationService struct {
	repo repository.ConversationRepository
}

func NewConversationService(repo repository.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

func (s *ConversationService) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	return s.repo.FindByID(ctx, id)
}

// FindOrCreate returns the conversation for the unordered pair
// {callerID, otherID}, creating it when none exists. The pair_key uniqueness
// constraint means two racing calls still converge on one row.
func (s *ConversationService) FindOrCreate(ctx context.Context, callerID, otherID string) (*model.Conversation, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity required")
	}
	if otherID == "" {
		return nil, apperrors.MissingRequired("otherUserId")
	}
	if callerID == otherID {
		return nil, apperrors.InvalidParticipants()
	}

	userA, userB := callerID, otherID
	if userB < userA {
		userA, userB = userB, userA
	}

	conv, err := s.repo.Upsert(ctx, model.CreateConversationParams{
		PairKey:   PairKey(callerID, otherID),
		UserA:     userA,
		UserB:     userB,
		CreatedBy: callerID,
	})
	if err != nil {
		return nil, fmt.Errorf("find or create conversation: %w", err)
	}

	log.Debug().
		Str("conversationId", conv.ID).
		Str("createdBy", callerID).
		Msg("conversation resolved")

	return conv, nil
}

func (s *ConversationService) ListByParticipant(ctx context.Context, profileID string, limit, offset int) ([]model.Conversation, error) {
	return s.repo.FindByParticipant(ctx, profileID, limit, offset)
}
