package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lagreelink/marketplace-server/internal/database"
	"github.com/lagreelink/marketplace-server/internal/model"
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	FindByPairKey(ctx context.Context, pairKey string) (*model.Conversation, error)
	FindByParticipant(ctx context.Context, profileID string, limit, offset int) ([]model.Conversation, error)
	Upsert(ctx context.Context, params model.CreateConversationParams) (*model.Conversation, error)
	TouchLastMessage(ctx context.Context, q database.DBTX, id string, at time.Time) error
	CountByParticipant(ctx context.Context, profileID string) (int, error)
}

type conversationRepo struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = $1`, id)
	return HandleNotFound(&conv, err)
}

func (r *conversationRepo) FindByPairKey(ctx context.Context, pairKey string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT * FROM conversations WHERE pair_key = $1
	`, pairKey)
	return HandleNotFound(&conv, err)
}

func (r *conversationRepo) FindByParticipant(ctx context.Context, profileID string, limit, offset int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.db.SelectContext(ctx, &convs, `
		SELECT * FROM conversations
		WHERE user_a = $1 OR user_b = $1
		ORDER BY last_message_at DESC
		LIMIT $2 OFFSET $3
	`, profileID, limit, offset)
	return convs, err
}

// Upsert returns the existing row for the pair when one is already present.
// The unique index on pair_key makes concurrent find-or-create calls for the
// same pair converge on a single conversation.
func (r *conversationRepo) Upsert(ctx context.Context, params model.CreateConversationParams) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `
		INSERT INTO conversations (pair_key, user_a, user_b, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pair_key) DO UPDATE SET
			pair_key = EXCLUDED.pair_key
		RETURNING *
	`, params.PairKey, params.UserA, params.UserB, params.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) TouchLastMessage(ctx context.Context, q database.DBTX, id string, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE conversations SET last_message_at = $2 WHERE id = $1
	`, id, at)
	return err
}

func (r *conversationRepo) CountByParticipant(ctx context.Context, profileID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM conversations WHERE user_a = $1 OR user_b = $1
	`, profileID)
	return count, err
}
