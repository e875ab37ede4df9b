package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
)

// followListPageSize caps follower/following listings.
const followListPageSize = 100

// FollowServiceProvider defines the interface for the follow workflow.
type FollowServiceProvider interface {
	RequestFollow(followerID, targetID string) (string, error)
	AcceptFollowRequest(ownerID, requestID string) ([]models.FollowUser, error)
	RejectFollowRequest(ownerID, requestID string) error
	Unfollow(followerID, targetID string) error
	ListFollowers(userID, requesterID string) ([]models.FollowUser, error)
	ListFollowing(userID, requesterID string) ([]models.FollowUser, error)
	ListPendingRequests(ownerID string) ([]models.FollowRequest, error)
	IsAcceptedFollower(targetID, followerID string) (bool, error)
}

// FollowService implements the follow-request workflow: public targets gain
// an accepted edge immediately, private targets get a pending request the
// owner accepts or rejects.
type FollowService struct {
	db       *sql.DB
	notifSvc NotificationServiceProvider
}

// NewFollowService creates a new FollowService.
func NewFollowService(db *sql.DB, notifSvc NotificationServiceProvider) *FollowService {
	return &FollowService{db: db, notifSvc: notifSvc}
}

// RequestFollow creates a follow edge from follower to target. Returns the
// resulting edge status, ACCEPTED for public targets and PENDING for private
// ones.
func (s *FollowService) RequestFollow(followerID, targetID string) (string, error) {
	if followerID == targetID {
		return "", apperrors.Wrap(apperrors.ErrValidation, "you cannot follow yourself")
	}

	var isPrivate bool
	row := s.db.QueryRow("SELECT is_private FROM users WHERE id = ?", targetID)
	if err := row.Scan(&isPrivate); err != nil {
		if err == sql.ErrNoRows {
			return "", apperrors.Wrap(apperrors.ErrNotFound, "user not found")
		}
		return "", err
	}

	if err := s.edgeConflict(targetID, followerID); err != nil {
		return "", err
	}

	status := models.FollowAccepted
	if isPrivate {
		status = models.FollowPending
	}

	followID := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO follows (id, target_user_id, follower_user_id, status) VALUES (?, ?, ?, ?)",
		followID, targetID, followerID, status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent request for the same pair; the
			// unique index is the authoritative guard. Re-read for the
			// status-specific conflict message.
			if conflictErr := s.edgeConflict(targetID, followerID); conflictErr != nil {
				return "", conflictErr
			}
			return "", apperrors.Wrap(apperrors.ErrConflict, "a follow relationship already exists")
		}
		return "", err
	}

	followerName := s.usernameOf(followerID)
	meta := map[string]string{"followerId": followerID, "followId": followID}
	if status == models.FollowAccepted {
		s.notifSvc.Notify(targetID, models.NotifFollow, fmt.Sprintf("%s started following you", followerName), meta)
	} else {
		s.notifSvc.Notify(targetID, models.NotifFollowRequest, fmt.Sprintf("%s requested to follow you", followerName), meta)
	}

	return status, nil
}

// AcceptFollowRequest transitions a pending request owned by ownerID to
// ACCEPTED and returns the owner's refreshed accepted-followers list.
func (s *FollowService) AcceptFollowRequest(ownerID, requestID string) ([]models.FollowUser, error) {
	var followerID string
	row := s.db.QueryRow(
		"SELECT follower_user_id FROM follows WHERE id = ? AND target_user_id = ? AND status = ?",
		requestID, ownerID, models.FollowPending,
	)
	if err := row.Scan(&followerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "follow request not found or already processed")
		}
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE follows SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		models.FollowAccepted, requestID,
	)
	if err != nil {
		return nil, err
	}

	ownerName := s.usernameOf(ownerID)
	s.notifSvc.Notify(followerID, models.NotifFollow,
		fmt.Sprintf("%s accepted your follow request", ownerName),
		map[string]string{"targetId": ownerID, "followId": requestID})

	return s.ListFollowers(ownerID, ownerID)
}

// RejectFollowRequest removes a pending request owned by ownerID. Rejection
// deletes the edge, so the requester may follow again later.
func (s *FollowService) RejectFollowRequest(ownerID, requestID string) error {
	res, err := s.db.Exec(
		"DELETE FROM follows WHERE id = ? AND target_user_id = ? AND status = ?",
		requestID, ownerID, models.FollowPending,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "follow request not found or already processed")
	}
	return nil
}

// Unfollow deletes the edge from follower to target regardless of status.
func (s *FollowService) Unfollow(followerID, targetID string) error {
	if followerID == targetID {
		return apperrors.Wrap(apperrors.ErrValidation, "you cannot unfollow yourself")
	}

	res, err := s.db.Exec(
		"DELETE FROM follows WHERE target_user_id = ? AND follower_user_id = ?",
		targetID, followerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "you are not following this user")
	}
	return nil
}

// ListFollowers returns the accepted followers of userID, newest first.
// Private accounts are visible only to the owner and accepted followers.
func (s *FollowService) ListFollowers(userID, requesterID string) ([]models.FollowUser, error) {
	if err := s.privacyGate(userID, requesterID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT u.id, u.username, u.avatar_url, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_user_id
		WHERE f.target_user_id = ? AND f.status = ?
		ORDER BY f.created_at DESC, f.rowid DESC
		LIMIT ?`,
		userID, models.FollowAccepted, followListPageSize,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollowUsers(rows)
}

// ListFollowing returns the accounts userID follows, newest first, behind
// the same privacy gate as ListFollowers.
func (s *FollowService) ListFollowing(userID, requesterID string) ([]models.FollowUser, error) {
	if err := s.privacyGate(userID, requesterID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT u.id, u.username, u.avatar_url, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.target_user_id
		WHERE f.follower_user_id = ? AND f.status = ?
		ORDER BY f.created_at DESC, f.rowid DESC
		LIMIT ?`,
		userID, models.FollowAccepted, followListPageSize,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollowUsers(rows)
}

// ListPendingRequests returns the owner's incoming pending requests.
func (s *FollowService) ListPendingRequests(ownerID string) ([]models.FollowRequest, error) {
	rows, err := s.db.Query(`
		SELECT f.id, u.id, u.username, u.avatar_url, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_user_id
		WHERE f.target_user_id = ? AND f.status = ?
		ORDER BY f.created_at DESC, f.rowid DESC`,
		ownerID, models.FollowPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.FollowRequest
	for rows.Next() {
		var req models.FollowRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.Username, &req.AvatarURL, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// IsAcceptedFollower reports whether followerID has an accepted edge to
// targetID.
func (s *FollowService) IsAcceptedFollower(targetID, followerID string) (bool, error) {
	var count int
	row := s.db.QueryRow(
		"SELECT COUNT(*) FROM follows WHERE target_user_id = ? AND follower_user_id = ? AND status = ?",
		targetID, followerID, models.FollowAccepted,
	)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// edgeConflict fails with a status-specific conflict error when an edge
// already exists for the pair.
func (s *FollowService) edgeConflict(targetID, followerID string) error {
	var status string
	row := s.db.QueryRow(
		"SELECT status FROM follows WHERE target_user_id = ? AND follower_user_id = ?",
		targetID, followerID,
	)
	err := row.Scan(&status)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	switch status {
	case models.FollowPending:
		return apperrors.Wrap(apperrors.ErrConflict, "follow request already pending")
	case models.FollowAccepted:
		return apperrors.Wrap(apperrors.ErrConflict, "already following this user")
	case models.FollowRejected:
		// Rejection currently deletes the edge, so this branch only fires if
		// the policy ever changes to retained rejected rows.
		return apperrors.Wrap(apperrors.ErrConflict, "follow request was previously rejected")
	default:
		return apperrors.Wrap(apperrors.ErrConflict, "a follow relationship already exists")
	}
}

// privacyGate fails with ErrForbidden when the subject account is private
// and the requester is neither the owner nor an accepted follower. A missing
// subject fails as not-found.
func (s *FollowService) privacyGate(subjectID, requesterID string) error {
	var isPrivate bool
	row := s.db.QueryRow("SELECT is_private FROM users WHERE id = ?", subjectID)
	if err := row.Scan(&isPrivate); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.Wrap(apperrors.ErrNotFound, "user not found")
		}
		return err
	}

	if !isPrivate || subjectID == requesterID {
		return nil
	}

	accepted, err := s.IsAcceptedFollower(subjectID, requesterID)
	if err != nil {
		return err
	}
	if !accepted {
		return apperrors.Wrap(apperrors.ErrForbidden, "this account is private")
	}
	return nil
}

// usernameOf resolves a username for notification text, falling back to
// "someone" when the lookup fails.
func (s *FollowService) usernameOf(userID string) string {
	var username string
	row := s.db.QueryRow("SELECT username FROM users WHERE id = ?", userID)
	if err := row.Scan(&username); err != nil {
		return "someone"
	}
	return username
}

func scanFollowUsers(rows *sql.Rows) ([]models.FollowUser, error) {
	var users []models.FollowUser
	for rows.Next() {
		var fu models.FollowUser
		if err := rows.Scan(&fu.UserID, &fu.Username, &fu.AvatarURL, &fu.Since); err != nil {
			return nil, err
		}
		users = append(users, fu)
	}
	return users, rows.Err()
}
