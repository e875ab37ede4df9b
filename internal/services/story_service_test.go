package services_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoryService(t *testing.T) (*services.StoryService, *services.FollowService, *sql.DB) {
	t.Helper()
	db := setupTestDB(t)
	notifSvc := services.NewNotificationService(db, nil, nil)
	followSvc := services.NewFollowService(db, notifSvc)
	return services.NewStoryService(db, followSvc), followSvc, db
}

func expireStory(t *testing.T, db *sql.DB, storyID string) {
	t.Helper()
	_, err := db.Exec("UPDATE stories SET expires_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Minute), storyID)
	require.NoError(t, err)
}

func TestExpiredStoriesAreHidden(t *testing.T) {
	svc, _, db := newStoryService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	fresh, err := svc.CreateStory(bob, "https://img/fresh.jpg", "")
	require.NoError(t, err)
	stale, err := svc.CreateStory(bob, "https://img/stale.jpg", "")
	require.NoError(t, err)
	expireStory(t, db, stale.ID)

	stories, err := svc.ListUserStories(bob, bob)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, fresh.ID, stories[0].ID)
}

func TestDeleteExpiredPurgesOnlyStale(t *testing.T) {
	svc, _, db := newStoryService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	_, err := svc.CreateStory(bob, "https://img/fresh.jpg", "")
	require.NoError(t, err)
	stale, err := svc.CreateStory(bob, "https://img/stale.jpg", "")
	require.NoError(t, err)
	expireStory(t, db, stale.ID)

	removed, err := svc.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM stories"))
}

func TestStoriesRespectPrivacy(t *testing.T) {
	svc, followSvc, db := newStoryService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)

	_, err := svc.CreateStory(bob, "https://img/secret.jpg", "")
	require.NoError(t, err)

	_, err = svc.ListUserStories(bob, alice)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = followSvc.RequestFollow(alice, bob)
	require.NoError(t, err)
	_, err = followSvc.AcceptFollowRequest(bob, followID(t, db, bob, alice))
	require.NoError(t, err)

	stories, err := svc.ListUserStories(bob, alice)
	require.NoError(t, err)
	assert.Len(t, stories, 1)
}

func TestHighlightsOutliveStories(t *testing.T) {
	svc, _, db := newStoryService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	story, err := svc.CreateStory(bob, "https://img/trip.jpg", "day one")
	require.NoError(t, err)

	_, err = svc.CreateHighlight(bob, "", []string{story.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	highlight, err := svc.CreateHighlight(bob, "Trip", []string{story.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{story.ID}, highlight.StoryIDs)

	// expiry sweeps the story but leaves the highlight intact
	expireStory(t, db, story.ID)
	_, err = svc.DeleteExpired()
	require.NoError(t, err)

	highlights, err := svc.ListUserHighlights(bob, bob)
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, "Trip", highlights[0].Name)
	assert.Equal(t, []string{story.ID}, highlights[0].StoryIDs)
}

func TestHighlightOwnershipEnforced(t *testing.T) {
	svc, _, db := newStoryService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	story, err := svc.CreateStory(bob, "https://img/bobs.jpg", "")
	require.NoError(t, err)

	_, err = svc.CreateHighlight(alice, "Stolen", []string{story.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
