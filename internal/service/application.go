package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
)

type ApplicationService struct {
	appRepo        repository.ApplicationRepository
	jobRepo        repository.JobRepository
	studioRepo     repository.StudioRepository
	instructorRepo repository.InstructorRepository
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	studioRepo repository.StudioRepository,
	instructorRepo repository.InstructorRepository,
) *ApplicationService {
	return &ApplicationService{
		appRepo:        appRepo,
		jobRepo:        jobRepo,
		studioRepo:     studioRepo,
		instructorRepo: instructorRepo,
	}
}

// Apply records an instructor's application for an open job. One application
// per instructor per job.
func (s *ApplicationService) Apply(ctx context.Context, profileID, jobID string, coverLetter string) (*model.Application, error) {
	inst, err := s.instructorRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	if inst == nil {
		return nil, apperrors.Forbidden("Only instructors can apply for jobs")
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, apperrors.NotFound("Job")
	}
	if job.Status != model.JobStatusOpen {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Job is no longer open")
	}

	existing, err := s.appRepo.FindByJobAndApplicant(ctx, jobID, profileID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Application")
	}

	var letter *string
	if coverLetter != "" {
		letter = &coverLetter
	}

	app, err := s.appRepo.Create(ctx, model.CreateApplicationParams{
		JobID:       jobID,
		ApplicantID: profileID,
		CoverLetter: letter,
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	log.Info().
		Str("applicationId", app.ID).
		Str("jobId", jobID).
		Str("applicantId", profileID).
		Msg("application submitted")

	return app, nil
}

// ListForJob returns a job's applications to the studio that posted it.
func (s *ApplicationService) ListForJob(ctx context.Context, profileID, jobID string) ([]model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, apperrors.NotFound("Job")
	}

	studio, err := s.studioRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if studio == nil || studio.ID != job.StudioID {
		return nil, apperrors.Forbidden("Only the posting studio can view applicants")
	}

	return s.appRepo.FindByJobID(ctx, jobID)
}

func (s *ApplicationService) ListMine(ctx context.Context, profileID string, limit, offset int) ([]model.Application, error) {
	return s.appRepo.FindByApplicantID(ctx, profileID, limit, offset)
}

// SetStatus lets the posting studio accept or decline an application.
func (s *ApplicationService) SetStatus(ctx context.Context, profileID, applicationID string, status model.ApplicationStatus) (*model.Application, error) {
	if !model.ValidApplicationStatus(status) {
		return nil, apperrors.InvalidInput("status", string(status))
	}

	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app == nil {
		return nil, apperrors.NotFound("Application")
	}

	job, err := s.jobRepo.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, apperrors.NotFound("Job")
	}

	studio, err := s.studioRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if studio == nil || studio.ID != job.StudioID {
		return nil, apperrors.Forbidden("Only the posting studio can update this application")
	}

	if err := s.appRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	app.Status = status
	return app, nil
}
