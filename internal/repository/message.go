package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lagreelink/marketplace-server/internal/database"
	"github.com/lagreelink/marketplace-server/internal/model"
)

type MessageRepository interface {
	FindByID(ctx context.Context, id string) (*model.Message, error)
	FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error)
	FindLatestByConversationID(ctx context.Context, conversationID string) (*model.Message, error)
	Create(ctx context.Context, q database.DBTX, params model.CreateMessageParams) (*model.Message, error)
	CountByConversationID(ctx context.Context, conversationID string) (int, error)
}

type messageRepo struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := r.db.GetContext(ctx, &msg, `SELECT * FROM messages WHERE id = $1`, id)
	return HandleNotFound(&msg, err)
}

// FindByConversationID returns messages in ascending send order. The id
// column breaks created_at ties so the order is total for every reader.
func (r *messageRepo) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.SelectContext(ctx, &msgs, `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	return msgs, err
}

func (r *messageRepo) FindLatestByConversationID(ctx context.Context, conversationID string) (*model.Message, error) {
	var msg model.Message
	err := r.db.GetContext(ctx, &msg, `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, conversationID)
	return HandleNotFound(&msg, err)
}

func (r *messageRepo) Create(ctx context.Context, q database.DBTX, params model.CreateMessageParams) (*model.Message, error) {
	var msg model.Message
	err := q.GetContext(ctx, &msg, `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.ConversationID, params.SenderID, params.Body)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) CountByConversationID(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM messages WHERE conversation_id = $1
	`, conversationID)
	return count, err
}
