package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for posts, likes and comments.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload struct {
		Caption  string `json:"caption"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(claims.UserID, payload.Caption, payload.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create post")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// Get handles GET /posts/{postId}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	post, err := h.service.GetPost(postID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/{postId}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.service.DeletePost(postID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserPosts handles GET /posts/user/{userId}.
func (h *PostHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	posts, err := h.service.ListUserPosts(userID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// Feed handles GET /posts/feed.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	posts, err := h.service.GetFeed(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to build feed")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// Like handles POST /posts/{postId}/like.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.service.LikePost(postID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "post liked"})
}

// Unlike handles DELETE /posts/{postId}/like.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.service.UnlikePost(postID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "like removed"})
}

// CreateComment handles POST /posts/{postId}/comments.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	comment, err := h.service.CreateComment(postID, claims.UserID, payload.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /posts/{postId}/comments.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	comments, err := h.service.ListComments(postID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// DeleteComment handles DELETE /comments/{commentId}.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	commentID := chi.URLParam(r, "commentId")

	if err := h.service.DeleteComment(commentID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
