package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
	"github.com/lagreelink/marketplace-server/internal/util"
)

type AuthService struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	bcryptCost  int
	sessionTTL  time.Duration
}

func NewAuthService(
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	bcryptCost int,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		bcryptCost:  bcryptCost,
		sessionTTL:  sessionTTL,
	}
}

type AuthResult struct {
	Profile *model.Profile `json:"profile"`
	Token   string         `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, email, password string, role model.Role, firstName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("password", "must be at least 8 characters")
	}
	if role != model.RoleStudio && role != model.RoleInstructor {
		return nil, apperrors.InvalidInput("role", string(role))
	}

	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Account")
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile, err := s.profileRepo.Create(ctx, model.CreateProfileParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    firstName,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	token, err := s.createSession(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("profileId", profile.ID).
		Str("role", string(role)).
		Msg("profile registered")

	return &AuthResult{Profile: profile, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil || !util.CheckPasswordHash(password, profile.PasswordHash) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.createSession(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Profile: profile, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.Delete(ctx, util.HashToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) createSession(ctx context.Context, profileID string) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessionRepo.Create(ctx, util.HashToken(token), profileID, expiresAt); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
