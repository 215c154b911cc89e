package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sundialhq/sundial/internal/api/middleware"
	"github.com/sundialhq/sundial/internal/domain"
	"github.com/sundialhq/sundial/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.HandleMessage(r.Context(), user, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCalendarNotConnected):
			writeError(w, http.StatusForbidden, "please connect your calendar")
		default:
			writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

type historyResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	Count    int                  `json:"count"`
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.svc.History(r.Context(), user, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Messages: messages, Count: len(messages)})
}

func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if _, err := h.svc.ClearHistory(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear chat history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
