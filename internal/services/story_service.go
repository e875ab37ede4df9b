package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
)

// storyTTL is how long a story stays visible after creation.
const storyTTL = 24 * time.Hour

// StoryServiceProvider defines the interface for story services.
type StoryServiceProvider interface {
	CreateStory(userID, imageURL, caption string) (models.Story, error)
	ListUserStories(userID, requesterID string) ([]models.Story, error)
	DeleteStory(storyID, requesterID string) error
	DeleteExpired() (int64, error)
	CreateHighlight(userID, name string, storyIDs []string) (models.Highlight, error)
	ListUserHighlights(userID, requesterID string) ([]models.Highlight, error)
	DeleteHighlight(highlightID, requesterID string) error
}

// StoryService provides business logic for ephemeral stories and the
// highlights that outlive them.
type StoryService struct {
	db        *sql.DB
	followSvc FollowServiceProvider
}

// NewStoryService creates a new StoryService.
func NewStoryService(db *sql.DB, followSvc FollowServiceProvider) *StoryService {
	return &StoryService{db: db, followSvc: followSvc}
}

// CreateStory inserts a story that expires 24 hours from now.
func (s *StoryService) CreateStory(userID, imageURL, caption string) (models.Story, error) {
	if imageURL == "" {
		return models.Story{}, apperrors.Wrap(apperrors.ErrValidation, "a story needs an image")
	}

	story := models.Story{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageURL:  imageURL,
		Caption:   caption,
		ExpiresAt: time.Now().UTC().Add(storyTTL),
	}
	_, err := s.db.Exec(
		"INSERT INTO stories (id, user_id, image_url, caption, expires_at) VALUES (?, ?, ?, ?, ?)",
		story.ID, story.UserID, story.ImageURL, story.Caption, story.ExpiresAt,
	)
	if err != nil {
		return models.Story{}, err
	}

	row := s.db.QueryRow("SELECT created_at FROM stories WHERE id = ?", story.ID)
	if err := row.Scan(&story.CreatedAt); err != nil {
		return models.Story{}, err
	}
	return story, nil
}

// ListUserStories returns a user's unexpired stories, oldest first, behind
// the privacy gate. Expired stories are excluded even before the sweeper
// removes them.
func (s *StoryService) ListUserStories(userID, requesterID string) ([]models.Story, error) {
	if err := s.ownerGate(userID, requesterID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, user_id, image_url, caption, created_at, expires_at FROM stories WHERE user_id = ? AND expires_at > ? ORDER BY created_at ASC",
		userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var st models.Story
		if err := rows.Scan(&st.ID, &st.UserID, &st.ImageURL, &st.Caption, &st.CreatedAt, &st.ExpiresAt); err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

// DeleteStory removes a story owned by the requester.
func (s *StoryService) DeleteStory(storyID, requesterID string) error {
	res, err := s.db.Exec("DELETE FROM stories WHERE id = ? AND user_id = ?", storyID, requesterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "story not found")
	}
	return nil
}

// DeleteExpired purges stories past their expiry. Called by the background
// sweeper; returns the number of rows removed.
func (s *StoryService) DeleteExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM stories WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateHighlight groups the owner's story ids under a name. The stories
// must belong to the owner; the ids stay valid after story expiry.
func (s *StoryService) CreateHighlight(userID, name string, storyIDs []string) (models.Highlight, error) {
	if name == "" || len(storyIDs) == 0 {
		return models.Highlight{}, apperrors.Wrap(apperrors.ErrValidation, "a highlight needs a name and at least one story")
	}

	for _, storyID := range storyIDs {
		var owner string
		row := s.db.QueryRow("SELECT user_id FROM stories WHERE id = ?", storyID)
		if err := row.Scan(&owner); err != nil {
			if err == sql.ErrNoRows {
				return models.Highlight{}, apperrors.Wrap(apperrors.ErrNotFound, "story not found")
			}
			return models.Highlight{}, err
		}
		if owner != userID {
			return models.Highlight{}, apperrors.Wrap(apperrors.ErrForbidden, "you can only highlight your own stories")
		}
	}

	raw, err := json.Marshal(storyIDs)
	if err != nil {
		return models.Highlight{}, err
	}

	highlight := models.Highlight{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     name,
		StoryIDs: storyIDs,
	}
	_, err = s.db.Exec(
		"INSERT INTO highlights (id, user_id, name, story_ids_json) VALUES (?, ?, ?, ?)",
		highlight.ID, highlight.UserID, highlight.Name, string(raw),
	)
	if err != nil {
		return models.Highlight{}, err
	}

	row := s.db.QueryRow("SELECT created_at FROM highlights WHERE id = ?", highlight.ID)
	if err := row.Scan(&highlight.CreatedAt); err != nil {
		return models.Highlight{}, err
	}
	return highlight, nil
}

// ListUserHighlights returns a user's highlights behind the privacy gate.
func (s *StoryService) ListUserHighlights(userID, requesterID string) ([]models.Highlight, error) {
	if err := s.ownerGate(userID, requesterID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, user_id, name, story_ids_json, created_at FROM highlights WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var highlights []models.Highlight
	for rows.Next() {
		var h models.Highlight
		var idsJSON string
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &idsJSON, &h.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(idsJSON), &h.StoryIDs); err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// DeleteHighlight removes a highlight owned by the requester.
func (s *StoryService) DeleteHighlight(highlightID, requesterID string) error {
	res, err := s.db.Exec("DELETE FROM highlights WHERE id = ? AND user_id = ?", highlightID, requesterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "highlight not found")
	}
	return nil
}

// ownerGate mirrors the follow service's privacy gate for story content.
func (s *StoryService) ownerGate(ownerID, requesterID string) error {
	var isPrivate bool
	row := s.db.QueryRow("SELECT is_private FROM users WHERE id = ?", ownerID)
	if err := row.Scan(&isPrivate); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.Wrap(apperrors.ErrNotFound, "user not found")
		}
		return err
	}
	if !isPrivate || ownerID == requesterID {
		return nil
	}

	accepted, err := s.followSvc.IsAcceptedFollower(ownerID, requesterID)
	if err != nil {
		return err
	}
	if !accepted {
		return apperrors.Wrap(apperrors.ErrForbidden, "this account is private")
	}
	return nil
}
