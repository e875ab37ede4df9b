package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles HTTP requests for direct messages.
type MessageHandler struct {
	service services.MessageServiceProvider
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.MessageServiceProvider) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /messages/{userId}.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	recipientID := chi.URLParam(r, "userId")

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	msg, err := h.service.SendMessage(claims.UserID, recipientID, payload.Content)
	if err != nil {
		log.Warn().Err(err).Str("sender_id", claims.UserID).Str("recipient_id", recipientID).Msg("Failed to send message")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// Conversation handles GET /messages/{userId}.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	peerID := chi.URLParam(r, "userId")

	messages, err := h.service.GetConversation(claims.UserID, peerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
