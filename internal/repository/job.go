package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lagreelink/marketplace-server/internal/model"
)

type JobRepository interface {
	FindByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	FindByStudioID(ctx context.Context, studioID string, limit, offset int) ([]model.Job, error)
	Create(ctx context.Context, params model.CreateJobParams) (*model.Job, error)
	UpdateStatus(ctx context.Context, id string, status model.JobStatus) error
}

type jobRepo struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := r.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = $1`, id)
	return HandleNotFound(&job, err)
}

func (r *jobRepo) List(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs
		WHERE ($1 = '' OR state = $1)
		AND ($2 = '' OR rate_unit = $2)
		AND ($3 = '' OR $3 = ANY(equipment))
		AND ($4 = '' OR status = $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`, filter.State, string(filter.RateUnit), filter.Equipment,
		string(filter.Status), filter.Limit, filter.Offset)
	return jobs, err
}

func (r *jobRepo) FindByStudioID(ctx context.Context, studioID string, limit, offset int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs
		WHERE studio_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, studioID, limit, offset)
	return jobs, err
}

func (r *jobRepo) Create(ctx context.Context, params model.CreateJobParams) (*model.Job, error) {
	var job model.Job
	err := r.db.GetContext(ctx, &job, `
		INSERT INTO jobs
			(studio_id, title, description, location, state, rate_min, rate_unit, equipment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.StudioID, params.Title, params.Description, params.Location,
		params.State, params.RateMin, params.RateUnit, pq.StringArray(params.Equipment))
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id string, status model.JobStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

// Application Repository

type ApplicationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Application, error)
	FindByJobID(ctx context.Context, jobID string) ([]model.Application, error)
	FindByApplicantID(ctx context.Context, applicantID string, limit, offset int) ([]model.Application, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*model.Application, error)
	Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}

type applicationRepo struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.GetContext(ctx, &app, `SELECT * FROM applications WHERE id = $1`, id)
	return HandleNotFound(&app, err)
}

func (r *applicationRepo) FindByJobID(ctx context.Context, jobID string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM applications
		WHERE job_id = $1
		ORDER BY created_at ASC
	`, jobID)
	return apps, err
}

func (r *applicationRepo) FindByApplicantID(ctx context.Context, applicantID string, limit, offset int) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, applicantID, limit, offset)
	return apps, err
}

func (r *applicationRepo) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*model.Application, error) {
	var app model.Application
	err := r.db.GetContext(ctx, &app, `
		SELECT * FROM applications WHERE job_id = $1 AND applicant_id = $2
	`, jobID, applicantID)
	return HandleNotFound(&app, err)
}

func (r *applicationRepo) Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error) {
	var app model.Application
	err := r.db.GetContext(ctx, &app, `
		INSERT INTO applications (job_id, applicant_id, cover_letter)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.JobID, params.ApplicantID, params.CoverLetter)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

// Saved Job Repository

type SavedJobRepository interface {
	Save(ctx context.Context, profileID, jobID string) error
	Unsave(ctx context.Context, profileID, jobID string) error
	FindByProfileID(ctx context.Context, profileID string) ([]model.SavedJob, error)
	Exists(ctx context.Context, profileID, jobID string) (bool, error)
}

type savedJobRepo struct {
	db *sqlx.DB
}

func NewSavedJobRepository(db *sqlx.DB) SavedJobRepository {
	return &savedJobRepo{db: db}
}

func (r *savedJobRepo) Save(ctx context.Context, profileID, jobID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_jobs (profile_id, job_id)
		VALUES ($1, $2)
		ON CONFLICT (profile_id, job_id) DO NOTHING
	`, profileID, jobID)
	return err
}

func (r *savedJobRepo) Unsave(ctx context.Context, profileID, jobID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_jobs WHERE profile_id = $1 AND job_id = $2
	`, profileID, jobID)
	return err
}

func (r *savedJobRepo) FindByProfileID(ctx context.Context, profileID string) ([]model.SavedJob, error) {
	var saved []model.SavedJob
	err := r.db.SelectContext(ctx, &saved, `
		SELECT * FROM saved_jobs
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`, profileID)
	return saved, err
}

func (r *savedJobRepo) Exists(ctx context.Context, profileID, jobID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM saved_jobs WHERE profile_id = $1 AND job_id = $2
	`, profileID, jobID)
	return count > 0, err
}
