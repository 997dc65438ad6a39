package service

import (
	"context"
	"fmt"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
)

// DirectoryService handles role onboarding and the browse surfaces for both
// sides of the marketplace.
type DirectoryService struct {
	instructorRepo repository.InstructorRepository
	studioRepo     repository.StudioRepository
}

func NewDirectoryService(
	instructorRepo repository.InstructorRepository,
	studioRepo repository.StudioRepository,
) *DirectoryService {
	return &DirectoryService{
		instructorRepo: instructorRepo,
		studioRepo:     studioRepo,
	}
}

type InstructorInput struct {
	Bio             string   `json:"bio"`
	ExperienceYears *int     `json:"experienceYears"`
	Skills          []string `json:"skills"`
	State           string   `json:"state" validate:"required"`
}

func (s *DirectoryService) CreateInstructor(ctx context.Context, profileID string, role model.Role, input InstructorInput) (*model.Instructor, error) {
	if role != model.RoleInstructor {
		return nil, apperrors.Forbidden("Only instructor accounts can create an instructor profile")
	}

	existing, err := s.instructorRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Instructor profile")
	}

	var bio *string
	if input.Bio != "" {
		bio = &input.Bio
	}
	if input.ExperienceYears != nil && *input.ExperienceYears < 0 {
		return nil, apperrors.InvalidInput("experienceYears", "must not be negative")
	}

	inst, err := s.instructorRepo.Create(ctx, model.CreateInstructorParams{
		ProfileID:       profileID,
		Bio:             bio,
		ExperienceYears: input.ExperienceYears,
		Skills:          input.Skills,
		State:           input.State,
	})
	if err != nil {
		return nil, fmt.Errorf("create instructor: %w", err)
	}
	return inst, nil
}

type StudioInput struct {
	Name    string           `json:"name" validate:"required"`
	Size    model.StudioSize `json:"size"`
	Address string           `json:"address"`
	State   string           `json:"state" validate:"required"`
}

func (s *DirectoryService) CreateStudio(ctx context.Context, profileID string, role model.Role, input StudioInput) (*model.Studio, error) {
	if role != model.RoleStudio {
		return nil, apperrors.Forbidden("Only studio accounts can create a studio profile")
	}

	existing, err := s.studioRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Studio profile")
	}

	if input.Size == "" {
		input.Size = model.StudioSizeSmall
	}
	switch input.Size {
	case model.StudioSizeSmall, model.StudioSizeMedium, model.StudioSizeLarge:
	default:
		return nil, apperrors.InvalidInput("size", string(input.Size))
	}

	var address *string
	if input.Address != "" {
		address = &input.Address
	}

	st, err := s.studioRepo.Create(ctx, model.CreateStudioParams{
		ProfileID: profileID,
		Name:      input.Name,
		Size:      input.Size,
		Address:   address,
		State:     input.State,
	})
	if err != nil {
		return nil, fmt.Errorf("create studio: %w", err)
	}
	return st, nil
}

func (s *DirectoryService) GetInstructor(ctx context.Context, id string) (*model.Instructor, error) {
	inst, err := s.instructorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	if inst == nil {
		return nil, apperrors.NotFound("Instructor")
	}
	return inst, nil
}

func (s *DirectoryService) ListInstructors(ctx context.Context, filter model.InstructorFilter, limit, offset int) ([]model.Instructor, error) {
	return s.instructorRepo.List(ctx, filter, limit, offset)
}

// InstructorForProfile resolves the instructor row owned by a profile, or nil.
func (s *DirectoryService) InstructorForProfile(ctx context.Context, profileID string) (*model.Instructor, error) {
	return s.instructorRepo.FindByProfileID(ctx, profileID)
}

// StudioForProfile resolves the studio row owned by a profile, or nil.
func (s *DirectoryService) StudioForProfile(ctx context.Context, profileID string) (*model.Studio, error) {
	return s.studioRepo.FindByProfileID(ctx, profileID)
}
