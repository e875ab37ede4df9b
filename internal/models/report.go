package models

import "time"

// Report statuses.
const (
	ReportOpen     = "OPEN"
	ReportResolved = "RESOLVED"
)

// Report represents a user-submitted report against a post, comment or user.
type Report struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporterId"`
	TargetType string    `json:"targetType"` // "post", "comment" or "user"
	TargetID   string    `json:"targetId"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
