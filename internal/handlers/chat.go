package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/middleware"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/internal/response"
)

type ChatService interface {
	Send(ctx context.Context, uid string, req dto.ChatRequest) (dto.ChatResponse, error)
	History(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error)
}

type chatHandlers struct {
	ResponseHandler response.ResponseHandler
	ChatSvc         ChatService
}

func NewChatHandlers(deps *Deps) *chatHandlers {
	return &chatHandlers{
		ResponseHandler: deps.ResponseHandler,
		ChatSvc:         deps.ChatSvc,
	}
}

func (h *chatHandlers) ChatRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/messages", h.SendMessage)
	r.Get("/sessions/{sessionId}/messages", h.GetHistory)
	return r
}

func (h *chatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	resp, err := h.ChatSvc.Send(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *chatHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	msgs, err := h.ChatSvc.History(r.Context(), uid, sessionID, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msgs)
}
