package models

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatarUrl"`
	IsPrivate    bool      `json:"isPrivate"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
