package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lagreelink/marketplace-server/internal/audit"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
	"github.com/lagreelink/marketplace-server/internal/util"
)

type contextKey string

const ProfileContextKey contextKey = "profile"

func GetProfile(ctx context.Context) *model.Profile {
	if profile, ok := ctx.Value(ProfileContextKey).(*model.Profile); ok {
		return profile
	}
	return nil
}

type AuthMiddleware struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
}

func NewAuthMiddleware(profileRepo repository.ProfileRepository, sessionRepo repository.SessionRepository) *AuthMiddleware {
	return &AuthMiddleware{profileRepo: profileRepo, sessionRepo: sessionRepo}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing authentication token",
			})
			return
		}

		session, err := m.sessionRepo.FindByTokenHash(r.Context(), util.HashToken(token))
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Authentication failed",
			})
			return
		}

		if session == nil {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid or expired token",
			})
			return
		}

		profile, err := m.profileRepo.FindByID(r.Context(), session.ProfileID)
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Authentication failed",
			})
			return
		}

		if profile == nil {
			log.Warn().Str("profileId", session.ProfileID).Msg("auth middleware: session for missing profile")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid or expired token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken reads the bearer token. The query form exists for EventSource
// clients, which cannot set headers.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
