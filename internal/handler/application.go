package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type ApplicationHandler struct {
	appService *service.ApplicationService
}

func NewApplicationHandler(appService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

func (h *ApplicationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/mine", h.ListMine)
	r.Put("/{id}/status", h.SetStatus)

	return r
}

// GET /v1/applications/mine
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	pagination := ParsePagination(r)
	apps, err := h.appService.ListMine(r.Context(), profile.ID, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        len(apps),
	})
}

// PUT /v1/applications/{id}/status
func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req struct {
		Status model.ApplicationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	app, err := h.appService.SetStatus(r.Context(), profile.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}
