package models

import "time"

// Story represents an ephemeral story that expires 24 hours after creation.
type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Highlight is a named group of story ids the owner chose to keep beyond
// story expiry.
type Highlight struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	StoryIDs  []string  `json:"storyIds"`
	CreatedAt time.Time `json:"createdAt"`
}
