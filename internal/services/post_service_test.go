package services_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(t *testing.T) (*services.PostService, *services.FollowService, *sql.DB) {
	t.Helper()
	db := setupTestDB(t)
	notifSvc := services.NewNotificationService(db, nil, nil)
	followSvc := services.NewFollowService(db, notifSvc)
	return services.NewPostService(db, followSvc, notifSvc), followSvc, db
}

func TestLikeNotifiesAuthorOnce(t *testing.T) {
	svc, _, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)

	require.NoError(t, svc.LikePost(post.ID, alice))

	// double like hits the schema constraint
	assert.ErrorIs(t, svc.LikePost(post.ID, alice), apperrors.ErrConflict)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?", bob, models.NotifLike))

	got, err := svc.GetPost(post.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	svc, _, db := newPostService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)

	require.NoError(t, svc.LikePost(post.ID, bob))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM notifications WHERE user_id = ?", bob))
}

func TestUnlike(t *testing.T) {
	svc, _, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UnlikePost(post.ID, alice), apperrors.ErrNotFound)

	require.NoError(t, svc.LikePost(post.ID, alice))
	require.NoError(t, svc.UnlikePost(post.ID, alice))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM post_likes"))
}

func TestCommentsNotifyAndList(t *testing.T) {
	svc, _, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)

	_, err = svc.CreateComment(post.ID, alice, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	comment, err := svc.CreateComment(post.ID, alice, "nice one")
	require.NoError(t, err)
	assert.Equal(t, alice, comment.UserID)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?", bob, models.NotifComment))

	comments, err := svc.ListComments(post.ID, alice)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice one", comments[0].Content)

	// the post author may delete any comment on their post
	require.NoError(t, svc.DeleteComment(comment.ID, bob))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM comments"))
}

func TestPrivateAuthorGatesPosts(t *testing.T) {
	svc, followSvc, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)

	post, err := svc.CreatePost(bob, "secret", "")
	require.NoError(t, err)

	_, err = svc.GetPost(post.ID, alice)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListUserPosts(bob, alice)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.LikePost(post.ID, alice), apperrors.ErrForbidden)

	// accepted followers get through
	_, err = followSvc.RequestFollow(alice, bob)
	require.NoError(t, err)
	_, err = followSvc.AcceptFollowRequest(bob, followID(t, db, bob, alice))
	require.NoError(t, err)

	got, err := svc.GetPost(post.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Caption)
}

func TestFeedContainsOwnAndFollowedPosts(t *testing.T) {
	svc, followSvc, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)
	carol := insertUser(t, db, "carol", false, models.RoleUser)

	_, err := svc.CreatePost(alice, "mine", "")
	require.NoError(t, err)
	_, err = svc.CreatePost(bob, "followed", "")
	require.NoError(t, err)
	_, err = svc.CreatePost(carol, "stranger", "")
	require.NoError(t, err)

	_, err = followSvc.RequestFollow(alice, bob)
	require.NoError(t, err)

	feed, err := svc.GetFeed(alice)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	captions := []string{feed[0].Caption, feed[1].Caption}
	assert.ElementsMatch(t, []string{"mine", "followed"}, captions)
}

func TestCommentsListedInCreationOrder(t *testing.T) {
	svc, _, db := newPostService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := svc.CreateComment(post.ID, bob, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	comments, err := svc.ListComments(post.ID, bob)
	require.NoError(t, err)
	require.Len(t, comments, 6)
	for i, c := range comments {
		assert.Equal(t, fmt.Sprintf("comment %d", i), c.Content)
	}
}

func TestFeedNewestFirst(t *testing.T) {
	svc, _, db := newPostService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	for i := 0; i < 5; i++ {
		_, err := svc.CreatePost(bob, fmt.Sprintf("post %d", i), "")
		require.NoError(t, err)
	}

	feed, err := svc.GetFeed(bob)
	require.NoError(t, err)
	require.Len(t, feed, 5)
	for i, p := range feed {
		assert.Equal(t, fmt.Sprintf("post %d", 4-i), p.Caption)
	}
}

func TestDeletePostCascades(t *testing.T) {
	svc, _, db := newPostService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	post, err := svc.CreatePost(bob, "hello", "")
	require.NoError(t, err)
	require.NoError(t, svc.LikePost(post.ID, alice))
	_, err = svc.CreateComment(post.ID, alice, "hi")
	require.NoError(t, err)

	// only the owner can delete
	assert.ErrorIs(t, svc.DeletePost(post.ID, alice), apperrors.ErrNotFound)
	require.NoError(t, svc.DeletePost(post.ID, bob))

	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM posts"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM post_likes"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM comments"))
}
