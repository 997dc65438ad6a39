package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type AvailabilityHandler struct {
	availabilityService *service.AvailabilityService
	directoryService    *service.DirectoryService
}

func NewAvailabilityHandler(
	availabilityService *service.AvailabilityService,
	directoryService *service.DirectoryService,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		directoryService:    directoryService,
	}
}

func (h *AvailabilityHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/preview", h.Preview)
	r.Get("/mine", h.ListMine)

	return r
}

type availabilityRequest struct {
	service.GenerateParams
	service.SlotMetadata
}

// POST /v1/availability/preview
// Expands the recurrence without persisting anything.
func (h *AvailabilityHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	preview, err := h.availabilityService.Preview(req.GenerateParams)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// POST /v1/availability
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	inst, err := h.directoryService.InstructorForProfile(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if inst == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Only instructors can post availability"})
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := h.availabilityService.PersistSlots(r.Context(), inst.ID, req.GenerateParams, req.SlotMetadata)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GET /v1/availability
// Open slots across instructors, filterable by kind, state, and window.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)
	filter := model.SlotFilter{
		Kind:   model.AvailabilityKind(r.URL.Query().Get("kind")),
		State:  r.URL.Query().Get("state"),
		From:   parseQueryTime(r.URL.Query().Get("from")),
		To:     parseQueryTime(r.URL.Query().Get("to")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}

	slots, err := h.availabilityService.ListOpen(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
		"total": len(slots),
	})
}

// GET /v1/availability/mine
func (h *AvailabilityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	inst, err := h.directoryService.InstructorForProfile(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if inst == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Only instructors have availability"})
		return
	}

	pagination := ParsePagination(r)
	slots, err := h.availabilityService.ListMine(r.Context(), inst.ID, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
		"total": len(slots),
	})
}

// parseQueryTime accepts RFC3339 timestamps or bare dates, nil otherwise.
func parseQueryTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}
