package model

import "time"

// Conversation is a two-party thread. The unordered participant pair is
// canonicalized into pair_key (sorted ids joined with ':'), which carries a
// uniqueness constraint so concurrent find-or-create calls converge on one row.
type Conversation struct {
	ID            string    `db:"id" json:"id"`
	PairKey       string    `db:"pair_key" json:"-"`
	UserA         string    `db:"user_a" json:"userA"`
	UserB         string    `db:"user_b" json:"userB"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	LastMessageAt time.Time `db:"last_message_at" json:"lastMessageAt"`
}

// HasParticipant reports whether id is one of the two participants.
func (c *Conversation) HasParticipant(id string) bool {
	return c.UserA == id || c.UserB == id
}

// OtherParticipant returns the participant that is not id.
func (c *Conversation) OtherParticipant(id string) string {
	if c.UserA == id {
		return c.UserB
	}
	return c.UserA
}

type CreateConversationParams struct {
	PairKey   string
	UserA     string
	UserB     string
	CreatedBy string
}
