package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lagreelink/marketplace-server/internal/audit"
	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	return r
}

// POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string     `json:"email"`
		Password  string     `json:"password"`
		Role      model.Role `json:"role"`
		FirstName string     `json:"firstName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Role, req.FirstName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventRegister,
		ProfileID: result.Profile.ID,
	})

	writeJSON(w, http.StatusCreated, result)
}

// POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeUnauthorized {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				Details: map[string]any{"email": req.Email},
			})
		}
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventLoginSuccess,
		ProfileID: result.Profile.ID,
	})

	writeJSON(w, http.StatusOK, result)
}

// POST /v1/auth/logout
// Mounted behind auth so the token has already been verified.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	token := middleware.ExtractToken(r)
	if err := h.authService.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Str("profileId", profile.ID).Msg("logout failed")
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventLogout,
		ProfileID: profile.ID,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
