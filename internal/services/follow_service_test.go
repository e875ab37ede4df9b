package services_test

import (
	"database/sql"
	"testing"

	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFollowService(t *testing.T) (*services.FollowService, *sql.DB) {
	t.Helper()
	db := setupTestDB(t)
	notifSvc := services.NewNotificationService(db, nil, nil)
	return services.NewFollowService(db, notifSvc), db
}

func TestRequestFollowPublicTarget(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	status, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FollowAccepted, status)

	// exactly one edge, accepted
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM follows"))
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM follows WHERE target_user_id = ? AND follower_user_id = ? AND status = ?",
		bob, alice, models.FollowAccepted))

	// target got a FOLLOW notification
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?", bob, models.NotifFollow))
}

func TestRequestFollowPrivateTarget(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)

	status, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FollowPending, status)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM follows WHERE target_user_id = ? AND follower_user_id = ? AND status = ?",
		bob, alice, models.FollowPending))
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?", bob, models.NotifFollowRequest))
}

func TestRequestFollowSelf(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)

	_, err := svc.RequestFollow(alice, alice)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM follows"))
}

func TestRequestFollowMissingTarget(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)

	_, err := svc.RequestFollow(alice, "no-such-user")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRequestFollowDuplicate(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)
	carol := insertUser(t, db, "carol", true, models.RoleUser)

	_, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)

	_, err = svc.RequestFollow(alice, bob)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "already following this user")

	_, err = svc.RequestFollow(alice, carol)
	require.NoError(t, err)

	_, err = svc.RequestFollow(alice, carol)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "follow request already pending")

	// still one edge per pair
	assert.Equal(t, 2, countRows(t, db, "SELECT COUNT(*) FROM follows"))
}

func TestAcceptFollowRequest(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)
	mallory := insertUser(t, db, "mallory", false, models.RoleUser)

	_, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	requestID := followID(t, db, bob, alice)

	// a non-owner cannot see or accept the request
	_, err = svc.AcceptFollowRequest(mallory, requestID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	followers, err := svc.AcceptFollowRequest(bob, requestID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice, followers[0].UserID)
	assert.Equal(t, "alice", followers[0].Username)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM follows WHERE id = ? AND status = ?", requestID, models.FollowAccepted))

	// already processed
	_, err = svc.AcceptFollowRequest(bob, requestID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRejectFollowRequest(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)

	_, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	requestID := followID(t, db, bob, alice)

	require.NoError(t, svc.RejectFollowRequest(bob, requestID))

	// rejection deletes the edge entirely
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM follows"))

	// rejecting again reports not-found
	assert.ErrorIs(t, svc.RejectFollowRequest(bob, requestID), apperrors.ErrNotFound)

	// no memory of the rejection: re-requesting succeeds
	status, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FollowPending, status)
}

func TestUnfollow(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	assert.ErrorIs(t, svc.Unfollow(alice, alice), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.Unfollow(alice, bob), apperrors.ErrNotFound)

	_, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Unfollow(alice, bob))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM follows"))
}

func TestListFollowersPrivacyGate(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)
	carol := insertUser(t, db, "carol", false, models.RoleUser)

	// alice becomes an accepted follower of private bob
	_, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	_, err = svc.AcceptFollowRequest(bob, followID(t, db, bob, alice))
	require.NoError(t, err)

	// a stranger is denied
	_, err = svc.ListFollowers(bob, carol)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListFollowing(bob, carol)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// the owner and an accepted follower can read
	followers, err := svc.ListFollowers(bob, bob)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	followers, err = svc.ListFollowers(bob, alice)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	// pending followers are never listed
	_, err = svc.RequestFollow(carol, bob)
	require.NoError(t, err)
	followers, err = svc.ListFollowers(bob, bob)
	require.NoError(t, err)
	assert.Len(t, followers, 1)
}

func TestListFollowersNewestFirst(t *testing.T) {
	svc, db := newFollowService(t)
	bob := insertUser(t, db, "bob", false, models.RoleUser)

	// same-second follows must still list in reverse arrival order
	names := []string{"alice", "carol", "dave"}
	for _, name := range names {
		id := insertUser(t, db, name, false, models.RoleUser)
		_, err := svc.RequestFollow(id, bob)
		require.NoError(t, err)
	}

	followers, err := svc.ListFollowers(bob, bob)
	require.NoError(t, err)
	require.Len(t, followers, 3)
	assert.Equal(t, "dave", followers[0].Username)
	assert.Equal(t, "carol", followers[1].Username)
	assert.Equal(t, "alice", followers[2].Username)
}

// The full private-account scenario: request, accept one, reject another.
func TestFollowRequestLifecycle(t *testing.T) {
	svc, db := newFollowService(t)
	alice := insertUser(t, db, "alice", false, models.RoleUser)
	bob := insertUser(t, db, "bob", true, models.RoleUser)
	carol := insertUser(t, db, "carol", false, models.RoleUser)

	status, err := svc.RequestFollow(alice, bob)
	require.NoError(t, err)
	require.Equal(t, models.FollowPending, status)

	status, err = svc.RequestFollow(carol, bob)
	require.NoError(t, err)
	require.Equal(t, models.FollowPending, status)

	pending, err := svc.ListPendingRequests(bob)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	followers, err := svc.AcceptFollowRequest(bob, followID(t, db, bob, alice))
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice, followers[0].UserID)

	require.NoError(t, svc.RejectFollowRequest(bob, followID(t, db, bob, carol)))

	// carol appears nowhere
	followers, err = svc.ListFollowers(bob, bob)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice, followers[0].UserID)

	following, err := svc.ListFollowing(carol, carol)
	require.NoError(t, err)
	assert.Empty(t, following)

	pending, err = svc.ListPendingRequests(bob)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
