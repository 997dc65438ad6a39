package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lagreelink/marketplace-server/internal/model"
)

type InstructorRepository interface {
	FindByID(ctx context.Context, id string) (*model.Instructor, error)
	FindByProfileID(ctx context.Context, profileID string) (*model.Instructor, error)
	List(ctx context.Context, filter model.InstructorFilter, limit, offset int) ([]model.Instructor, error)
	Create(ctx context.Context, params model.CreateInstructorParams) (*model.Instructor, error)
}

type instructorRepo struct {
	db *sqlx.DB
}

func NewInstructorRepository(db *sqlx.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) FindByID(ctx context.Context, id string) (*model.Instructor, error) {
	var inst model.Instructor
	err := r.db.GetContext(ctx, &inst, `SELECT * FROM instructors WHERE id = $1`, id)
	return HandleNotFound(&inst, err)
}

func (r *instructorRepo) FindByProfileID(ctx context.Context, profileID string) (*model.Instructor, error) {
	var inst model.Instructor
	err := r.db.GetContext(ctx, &inst, `SELECT * FROM instructors WHERE profile_id = $1`, profileID)
	return HandleNotFound(&inst, err)
}

func (r *instructorRepo) List(ctx context.Context, filter model.InstructorFilter, limit, offset int) ([]model.Instructor, error) {
	var insts []model.Instructor
	err := r.db.SelectContext(ctx, &insts, `
		SELECT * FROM instructors
		WHERE ($1 = '' OR state = $1)
		AND ($2 = '' OR $2 = ANY(skills))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, filter.State, filter.Skill, limit, offset)
	return insts, err
}

func (r *instructorRepo) Create(ctx context.Context, params model.CreateInstructorParams) (*model.Instructor, error) {
	var inst model.Instructor
	err := r.db.GetContext(ctx, &inst, `
		INSERT INTO instructors (profile_id, bio, experience_years, skills, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ProfileID, params.Bio, params.ExperienceYears,
		pq.StringArray(params.Skills), params.State)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Studio Repository

type StudioRepository interface {
	FindByID(ctx context.Context, id string) (*model.Studio, error)
	FindByProfileID(ctx context.Context, profileID string) (*model.Studio, error)
	Create(ctx context.Context, params model.CreateStudioParams) (*model.Studio, error)
}

type studioRepo struct {
	db *sqlx.DB
}

func NewStudioRepository(db *sqlx.DB) StudioRepository {
	return &studioRepo{db: db}
}

func (r *studioRepo) FindByID(ctx context.Context, id string) (*model.Studio, error) {
	var st model.Studio
	err := r.db.GetContext(ctx, &st, `SELECT * FROM studios WHERE id = $1`, id)
	return HandleNotFound(&st, err)
}

func (r *studioRepo) FindByProfileID(ctx context.Context, profileID string) (*model.Studio, error) {
	var st model.Studio
	err := r.db.GetContext(ctx, &st, `SELECT * FROM studios WHERE profile_id = $1`, profileID)
	return HandleNotFound(&st, err)
}

func (r *studioRepo) Create(ctx context.Context, params model.CreateStudioParams) (*model.Studio, error) {
	var st model.Studio
	err := r.db.GetContext(ctx, &st, `
		INSERT INTO studios (profile_id, name, size, address, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ProfileID, params.Name, params.Size, params.Address, params.State)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
