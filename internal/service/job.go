package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
)

type JobService struct {
	jobRepo    repository.JobRepository
	studioRepo repository.StudioRepository
	savedRepo  repository.SavedJobRepository
}

func NewJobService(
	jobRepo repository.JobRepository,
	studioRepo repository.StudioRepository,
	savedRepo repository.SavedJobRepository,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		studioRepo: studioRepo,
		savedRepo:  savedRepo,
	}
}

type JobInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Location    string   `json:"location"`
	State       string   `json:"state" validate:"required"`
	RateMin     *float64 `json:"rateMin"`
	RateUnit    string   `json:"rateUnit"`
	Equipment   []string `json:"equipment"`
}

func (s *JobService) Create(ctx context.Context, profileID string, input JobInput) (*model.Job, error) {
	studio, err := s.studioRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if studio == nil {
		return nil, apperrors.Forbidden("Only studios can post jobs")
	}

	rateUnit := model.RateUnit(input.RateUnit)
	if rateUnit == "" {
		rateUnit = model.RateUnitClass
	}
	if !model.ValidRateUnit(rateUnit) {
		return nil, apperrors.InvalidInput("rateUnit", input.RateUnit)
	}
	if input.RateMin != nil && *input.RateMin < 0 {
		return nil, apperrors.InvalidInput("rateMin", "must not be negative")
	}

	var location *string
	if input.Location != "" {
		location = &input.Location
	}

	job, err := s.jobRepo.Create(ctx, model.CreateJobParams{
		StudioID:    studio.ID,
		Title:       input.Title,
		Description: input.Description,
		Location:    location,
		State:       input.State,
		RateMin:     input.RateMin,
		RateUnit:    rateUnit,
		Equipment:   input.Equipment,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	log.Info().
		Str("jobId", job.ID).
		Str("studioId", studio.ID).
		Msg("job posted")

	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, apperrors.NotFound("Job")
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	if filter.RateUnit != "" && !model.ValidRateUnit(filter.RateUnit) {
		return nil, apperrors.InvalidInput("rateUnit", string(filter.RateUnit))
	}
	return s.jobRepo.List(ctx, filter)
}

// Close marks a job closed. Only the studio that posted it may close it.
func (s *JobService) Close(ctx context.Context, profileID, jobID string) (*model.Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	studio, err := s.studioRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if studio == nil || studio.ID != job.StudioID {
		return nil, apperrors.Forbidden("Only the posting studio can close this job")
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, model.JobStatusClosed); err != nil {
		return nil, fmt.Errorf("close job: %w", err)
	}
	job.Status = model.JobStatusClosed
	return job, nil
}

// Save and Unsave implement the saved-jobs toggle. Saving twice is a no-op.
func (s *JobService) Save(ctx context.Context, profileID, jobID string) error {
	if _, err := s.Get(ctx, jobID); err != nil {
		return err
	}
	if err := s.savedRepo.Save(ctx, profileID, jobID); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (s *JobService) Unsave(ctx context.Context, profileID, jobID string) error {
	if err := s.savedRepo.Unsave(ctx, profileID, jobID); err != nil {
		return fmt.Errorf("unsave job: %w", err)
	}
	return nil
}

func (s *JobService) ListSaved(ctx context.Context, profileID string) ([]model.SavedJob, error) {
	return s.savedRepo.FindByProfileID(ctx, profileID)
}
