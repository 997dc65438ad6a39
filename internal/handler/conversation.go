package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lagreelink/marketplace-server/internal/audit"
	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/service"
)

type ConversationHandler struct {
	convService    *service.ConversationService
	messageService *service.MessageService
}

func NewConversationHandler(
	convService *service.ConversationService,
	messageService *service.MessageService,
) *ConversationHandler {
	return &ConversationHandler{
		convService:    convService,
		messageService: messageService,
	}
}

func (h *ConversationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Inbox)
	r.Post("/", h.FindOrCreate)
	r.Get("/{id}/messages", h.ListMessages)
	r.Post("/{id}/messages", h.PostMessage)

	return r
}

// GET /v1/conversations
// The caller's inbox, most recently active first.
func (h *ConversationHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	pagination := ParsePagination(r)
	entries, err := h.messageService.Inbox(r.Context(), profile.ID, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": entries,
		"total":         len(entries),
	})
}

// POST /v1/conversations
// Resolves the conversation with another user, creating it when absent.
// Either participant may initiate; both orders land on the same thread.
func (h *ConversationHandler) FindOrCreate(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req struct {
		OtherUserID string `json:"otherUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.OtherUserID != "" {
		if _, err := uuid.Parse(req.OtherUserID); err != nil {
			writeError(w, r, apperrors.InvalidInput("otherUserId", "must be a valid id"))
			return
		}
	}

	conv, err := h.convService.FindOrCreate(r.Context(), profile.ID, req.OtherUserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// GET /v1/conversations/{id}/messages
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	pagination := ParsePagination(r)
	messages, err := h.messageService.ListMessages(r.Context(), chi.URLParam(r, "id"), profile.ID, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    len(messages),
	})
}

// POST /v1/conversations/{id}/messages
func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	conversationID := chi.URLParam(r, "id")
	msg, err := h.messageService.PostMessage(r.Context(), conversationID, profile.ID, req.Body)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeForbidden {
			audit.LogFromRequest(r, audit.Event{
				Type:      audit.EventMessageDenied,
				ProfileID: profile.ID,
				Details:   map[string]any{"conversationId": conversationID},
			})
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
