package models

import "time"

// Follow edge statuses. A rejected request is deleted rather than kept as a
// row, so REJECTED never appears in storage under the current policy.
const (
	FollowPending  = "PENDING"
	FollowAccepted = "ACCEPTED"
	FollowRejected = "REJECTED"
)

// Follow represents a directed follow edge from a follower to a target user.
// At most one edge exists per (target, follower) pair; the database enforces
// this with a unique index.
type Follow struct {
	ID             string    `json:"id"`
	TargetUserID   string    `json:"targetUserId"`
	FollowerUserID string    `json:"followerUserId"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FollowUser is the follower/following list entry: the edge plus the basic
// public fields of the related user.
type FollowUser struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	Since     time.Time `json:"since"`
}

// FollowRequest is a pending incoming request as shown to the target user.
type FollowRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
