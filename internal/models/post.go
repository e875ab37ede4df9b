package models

import "time"

// Post represents a feed post.
type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Caption      string    `json:"caption"`
	ImageURL     string    `json:"imageUrl"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment represents a comment left on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
