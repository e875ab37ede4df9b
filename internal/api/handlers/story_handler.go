package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/rs/zerolog/log"
)

// StoryHandler handles HTTP requests for stories and highlights.
type StoryHandler struct {
	service services.StoryServiceProvider
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(service services.StoryServiceProvider) *StoryHandler {
	return &StoryHandler{service: service}
}

// Create handles POST /stories.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload struct {
		ImageURL string `json:"imageUrl"`
		Caption  string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	story, err := h.service.CreateStory(claims.UserID, payload.ImageURL, payload.Caption)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create story")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, story)
}

// ListUserStories handles GET /stories/user/{userId}.
func (h *StoryHandler) ListUserStories(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	stories, err := h.service.ListUserStories(userID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}

// Delete handles DELETE /stories/{storyId}.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	storyID := chi.URLParam(r, "storyId")

	if err := h.service.DeleteStory(storyID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateHighlight handles POST /highlights.
func (h *StoryHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload struct {
		Name     string   `json:"name"`
		StoryIDs []string `json:"storyIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	highlight, err := h.service.CreateHighlight(claims.UserID, payload.Name, payload.StoryIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, highlight)
}

// ListUserHighlights handles GET /highlights/user/{userId}.
func (h *StoryHandler) ListUserHighlights(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	highlights, err := h.service.ListUserHighlights(userID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"highlights": highlights})
}

// DeleteHighlight handles DELETE /highlights/{id}.
func (h *StoryHandler) DeleteHighlight(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteHighlight(id, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
