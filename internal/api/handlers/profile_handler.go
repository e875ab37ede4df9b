package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile views, profile edits and the follow
// workflow endpoints.
type ProfileHandler struct {
	userService   services.UserServiceProvider
	followService services.FollowServiceProvider
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService services.UserServiceProvider, followService services.FollowServiceProvider) *ProfileHandler {
	return &ProfileHandler{userService: userService, followService: followService}
}

// Get handles retrieving a user's public profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles editing the authenticated user's own profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload struct {
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatarUrl"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(claims.UserID, payload.Bio, payload.AvatarURL, payload.IsPrivate)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update profile")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Follow handles POST /profile/follow/{userId}.
func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	targetID := chi.URLParam(r, "userId")

	status, err := h.followService.RequestFollow(claims.UserID, targetID)
	if err != nil {
		log.Warn().Err(err).Str("follower_id", claims.UserID).Str("target_id", targetID).Msg("Follow request failed")
		respondError(w, err)
		return
	}

	msg := "you are now following this user"
	if status == models.FollowPending {
		msg = "follow request sent"
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": msg, "status": status})
}

// AcceptRequest handles PUT /profile/follow-requests/{requestId}/accept.
func (h *ProfileHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	requestID := chi.URLParam(r, "requestId")

	followers, err := h.followService.AcceptFollowRequest(claims.UserID, requestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "follow request accepted",
		"followers": followers,
	})
}

// RejectRequest handles DELETE /profile/follow-requests/{requestId}/reject.
func (h *ProfileHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	requestID := chi.URLParam(r, "requestId")

	if err := h.followService.RejectFollowRequest(claims.UserID, requestID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "follow request rejected"})
}

// Unfollow handles DELETE /profile/unfollow/{userId}.
func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	targetID := chi.URLParam(r, "userId")

	if err := h.followService.Unfollow(claims.UserID, targetID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "unfollowed"})
}

// Followers handles GET /profile/followers/{userId}.
func (h *ProfileHandler) Followers(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	followers, err := h.followService.ListFollowers(userID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"followers": followers})
}

// Following handles GET /profile/following/{userId}.
func (h *ProfileHandler) Following(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	following, err := h.followService.ListFollowing(userID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"following": following})
}

// PendingRequests handles GET /profile/follow-requests/pending.
func (h *ProfileHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	requests, err := h.followService.ListPendingRequests(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list pending follow requests")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}
