package model

import (
	"encoding/json"
	"time"
)

type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversationId"`
	SenderID       string    `db:"sender_id" json:"senderId"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// ToEventData returns JSON data for SSE message events.
func (m *Message) ToEventData() json.RawMessage {
	data, _ := json.Marshal(map[string]any{
		"id":             m.ID,
		"conversationId": m.ConversationID,
		"senderId":       m.SenderID,
		"body":           m.Body,
		"createdAt":      m.CreatedAt,
	})
	return data
}

type CreateMessageParams struct {
	ConversationID string
	SenderID       string
	Body           string
}
