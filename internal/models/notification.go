package models

import (
	"encoding/json"
	"time"
)

// Notification types created by the fan-out step.
const (
	NotifFollow        = "FOLLOW"
	NotifFollowRequest = "FOLLOW_REQUEST"
	NotifLike          = "LIKE"
	NotifComment       = "COMMENT"
	NotifMessage       = "MESSAGE"
	NotifReport        = "REPORT"
)

// Notification represents a single notification row owned by the target user.
type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	IsRead    bool            `json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}
