package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type DirectoryHandler struct {
	directoryService *service.DirectoryService
}

func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (h *DirectoryHandler) InstructorRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListInstructors)
	r.Post("/", h.CreateInstructor)
	r.Get("/{id}", h.GetInstructor)

	return r
}

func (h *DirectoryHandler) StudioRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateStudio)

	return r
}

// GET /v1/instructors
func (h *DirectoryHandler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)
	filter := model.InstructorFilter{
		State: r.URL.Query().Get("state"),
		Skill: r.URL.Query().Get("skill"),
	}

	instructors, err := h.directoryService.ListInstructors(r.Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"instructors": instructors,
		"total":       len(instructors),
	})
}

// GET /v1/instructors/{id}
func (h *DirectoryHandler) GetInstructor(w http.ResponseWriter, r *http.Request) {
	inst, err := h.directoryService.GetInstructor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, inst)
}

// POST /v1/instructors
func (h *DirectoryHandler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var input service.InstructorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := checkStruct(input); err != nil {
		writeError(w, r, err)
		return
	}

	inst, err := h.directoryService.CreateInstructor(r.Context(), profile.ID, profile.Role, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, inst)
}

// POST /v1/studios
func (h *DirectoryHandler) CreateStudio(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var input service.StudioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := checkStruct(input); err != nil {
		writeError(w, r, err)
		return
	}

	studio, err := h.directoryService.CreateStudio(r.Context(), profile.ID, profile.Role, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, studio)
}

// GET /v1/me
// The caller's profile plus whichever role row they have onboarded.
func (h *DirectoryHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	response := map[string]any{"profile": profile}

	switch profile.Role {
	case model.RoleInstructor:
		inst, err := h.directoryService.InstructorForProfile(r.Context(), profile.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response["instructor"] = inst
	case model.RoleStudio:
		studio, err := h.directoryService.StudioForProfile(r.Context(), profile.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response["studio"] = studio
	}

	writeJSON(w, http.StatusOK, response)
}
