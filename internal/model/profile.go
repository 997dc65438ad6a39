package model

import "time"

type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	FirstName    string    `db:"first_name" json:"firstName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateProfileParams struct {
	Email        string
	PasswordHash string
	Role         Role
	FirstName    string
}

type Session struct {
	TokenHash string    `db:"token_hash" json:"-"`
	ProfileID string    `db:"profile_id" json:"profileId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}
