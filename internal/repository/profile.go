package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lagreelink/marketplace-server/internal/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error)
}

type profileRepo struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE id = $1`, id)
	return HandleNotFound(&p, err)
}

func (r *profileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE email = $1`, email)
	return HandleNotFound(&p, err)
}

func (r *profileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	var p model.Profile
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO profiles (email, password_hash, role, first_name)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Email, params.PasswordHash, params.Role, params.FirstName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Session Repository

type SessionRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error)
	Create(ctx context.Context, tokenHash, profileID string, expiresAt time.Time) error
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sessions WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&s, err)
}

func (r *sessionRepo) Create(ctx context.Context, tokenHash, profileID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, profile_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenHash, profileID, expiresAt)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
