package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
	appService *service.ApplicationService
}

func NewJobHandler(jobService *service.JobService, appService *service.ApplicationService) *JobHandler {
	return &JobHandler{jobService: jobService, appService: appService}
}

func (h *JobHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/saved", h.ListSaved)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/close", h.Close)
	r.Put("/{id}/save", h.Save)
	r.Delete("/{id}/save", h.Unsave)
	r.Post("/{id}/applications", h.Apply)
	r.Get("/{id}/applications", h.ListApplications)

	return r
}

// POST /v1/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var input service.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := checkStruct(input); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.jobService.Create(r.Context(), profile.ID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// GET /v1/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)
	filter := model.JobFilter{
		State:     r.URL.Query().Get("state"),
		Equipment: r.URL.Query().Get("equipment"),
		RateUnit:  model.RateUnit(r.URL.Query().Get("rateUnit")),
		Status:    model.JobStatus(r.URL.Query().Get("status")),
		Limit:     pagination.Limit,
		Offset:    pagination.Offset,
	}

	jobs, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GET /v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// POST /v1/jobs/{id}/close
func (h *JobHandler) Close(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.Close(r.Context(), profile.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// PUT /v1/jobs/{id}/save
func (h *JobHandler) Save(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	if err := h.jobService.Save(r.Context(), profile.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// DELETE /v1/jobs/{id}/save
func (h *JobHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	if err := h.jobService.Unsave(r.Context(), profile.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"saved": false})
}

// GET /v1/jobs/saved
func (h *JobHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	saved, err := h.jobService.ListSaved(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"saved": saved,
		"total": len(saved),
	})
}

// POST /v1/jobs/{id}/applications
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req struct {
		CoverLetter string `json:"coverLetter"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	app, err := h.appService.Apply(r.Context(), profile.ID, chi.URLParam(r, "id"), req.CoverLetter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, app)
}

// GET /v1/jobs/{id}/applications
func (h *JobHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	apps, err := h.appService.ListForJob(r.Context(), profile.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        len(apps),
	})
}
