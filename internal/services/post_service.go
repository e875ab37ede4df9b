package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
)

const feedPageSize = 50

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(userID, caption, imageURL string) (models.Post, error)
	GetPost(postID, requesterID string) (models.Post, error)
	DeletePost(postID, requesterID string) error
	ListUserPosts(userID, requesterID string) ([]models.Post, error)
	GetFeed(requesterID string) ([]models.Post, error)
	LikePost(postID, userID string) error
	UnlikePost(postID, userID string) error
	CreateComment(postID, userID, content string) (models.Comment, error)
	ListComments(postID, requesterID string) ([]models.Comment, error)
	DeleteComment(commentID, requesterID string) error
}

// PostService provides business logic for posts, likes and comments.
type PostService struct {
	db        *sql.DB
	followSvc FollowServiceProvider
	notifSvc  NotificationServiceProvider
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, followSvc FollowServiceProvider, notifSvc NotificationServiceProvider) *PostService {
	return &PostService{db: db, followSvc: followSvc, notifSvc: notifSvc}
}

// CreatePost inserts a new post for the user.
func (s *PostService) CreatePost(userID, caption, imageURL string) (models.Post, error) {
	if caption == "" && imageURL == "" {
		return models.Post{}, apperrors.Wrap(apperrors.ErrValidation, "a post needs a caption or an image")
	}

	post := models.Post{
		ID:       uuid.New().String(),
		UserID:   userID,
		Caption:  caption,
		ImageURL: imageURL,
	}
	_, err := s.db.Exec(
		"INSERT INTO posts (id, user_id, caption, image_url) VALUES (?, ?, ?, ?)",
		post.ID, post.UserID, post.Caption, post.ImageURL,
	)
	if err != nil {
		return models.Post{}, err
	}
	return s.getPost(post.ID)
}

// GetPost retrieves a post, applying the author's privacy gate.
func (s *PostService) GetPost(postID, requesterID string) (models.Post, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return models.Post{}, err
	}
	if err := s.authorGate(post.UserID, requesterID); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// DeletePost removes a post owned by the requester. Likes and comments
// cascade at the schema level.
func (s *PostService) DeletePost(postID, requesterID string) error {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ? AND user_id = ?", postID, requesterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "post not found")
	}
	return nil
}

// ListUserPosts returns a user's posts, newest first, behind the privacy gate.
func (s *PostService) ListUserPosts(userID, requesterID string) ([]models.Post, error) {
	if err := s.authorGate(userID, requesterID); err != nil {
		return nil, err
	}
	return s.queryPosts("WHERE p.user_id = ?", userID)
}

// GetFeed returns recent posts from accounts the requester follows, plus
// their own.
func (s *PostService) GetFeed(requesterID string) ([]models.Post, error) {
	return s.queryPosts(`
		WHERE p.user_id = ? OR p.user_id IN (
			SELECT target_user_id FROM follows
			WHERE follower_user_id = ? AND status = ?
		)`, requesterID, requesterID, models.FollowAccepted)
}

// LikePost records a like and notifies the post author. One like per
// (post, user) pair, enforced by the schema.
func (s *PostService) LikePost(postID, userID string) error {
	post, err := s.getPost(postID)
	if err != nil {
		return err
	}
	if err := s.authorGate(post.UserID, userID); err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO post_likes (id, post_id, user_id) VALUES (?, ?, ?)",
		uuid.New().String(), postID, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "post already liked")
		}
		return err
	}

	if post.UserID != userID {
		s.notifSvc.Notify(post.UserID, models.NotifLike,
			fmt.Sprintf("%s liked your post", s.usernameOf(userID)),
			map[string]string{"postId": postID, "actorId": userID})
	}
	return nil
}

// UnlikePost removes the requester's like from a post.
func (s *PostService) UnlikePost(postID, userID string) error {
	res, err := s.db.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "like not found")
	}
	return nil
}

// CreateComment adds a comment to a post and notifies the post author.
func (s *PostService) CreateComment(postID, userID, content string) (models.Comment, error) {
	if content == "" {
		return models.Comment{}, apperrors.Wrap(apperrors.ErrValidation, "comment content is required")
	}

	post, err := s.getPost(postID)
	if err != nil {
		return models.Comment{}, err
	}
	if err := s.authorGate(post.UserID, userID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		ID:      uuid.New().String(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	_, err = s.db.Exec(
		"INSERT INTO comments (id, post_id, user_id, content) VALUES (?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.UserID, comment.Content,
	)
	if err != nil {
		return models.Comment{}, err
	}

	if post.UserID != userID {
		s.notifSvc.Notify(post.UserID, models.NotifComment,
			fmt.Sprintf("%s commented on your post", s.usernameOf(userID)),
			map[string]string{"postId": postID, "commentId": comment.ID, "actorId": userID})
	}

	row := s.db.QueryRow("SELECT created_at FROM comments WHERE id = ?", comment.ID)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// ListComments returns a post's comments, oldest first.
func (s *PostService) ListComments(postID, requesterID string) ([]models.Comment, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return nil, err
	}
	if err := s.authorGate(post.UserID, requesterID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, post_id, user_id, content, created_at FROM comments WHERE post_id = ? ORDER BY created_at ASC, rowid ASC",
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post author.
func (s *PostService) DeleteComment(commentID, requesterID string) error {
	res, err := s.db.Exec(`
		DELETE FROM comments WHERE id = ? AND (
			user_id = ? OR post_id IN (SELECT id FROM posts WHERE user_id = ?)
		)`, commentID, requesterID, requesterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "comment not found")
	}
	return nil
}

func (s *PostService) getPost(postID string) (models.Post, error) {
	var post models.Post
	row := s.db.QueryRow(`
		SELECT p.id, p.user_id, p.caption, p.image_url, p.created_at,
			(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		FROM posts p WHERE p.id = ?`, postID)
	err := row.Scan(&post.ID, &post.UserID, &post.Caption, &post.ImageURL, &post.CreatedAt, &post.LikeCount, &post.CommentCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, apperrors.Wrap(apperrors.ErrNotFound, "post not found")
		}
		return models.Post{}, err
	}
	return post, nil
}

func (s *PostService) queryPosts(where string, args ...interface{}) ([]models.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.caption, p.image_url, p.created_at,
			(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		FROM posts p ` + where + `
		ORDER BY p.created_at DESC, p.rowid DESC LIMIT ?`
	args = append(args, feedPageSize)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Caption, &p.ImageURL, &p.CreatedAt, &p.LikeCount, &p.CommentCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// authorGate applies the content owner's privacy: private authors are
// visible only to themselves and accepted followers.
func (s *PostService) authorGate(authorID, requesterID string) error {
	var isPrivate bool
	row := s.db.QueryRow("SELECT is_private FROM users WHERE id = ?", authorID)
	if err := row.Scan(&isPrivate); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.Wrap(apperrors.ErrNotFound, "user not found")
		}
		return err
	}
	if !isPrivate || authorID == requesterID {
		return nil
	}

	accepted, err := s.followSvc.IsAcceptedFollower(authorID, requesterID)
	if err != nil {
		return err
	}
	if !accepted {
		return apperrors.Wrap(apperrors.ErrForbidden, "this account is private")
	}
	return nil
}

func (s *PostService) usernameOf(userID string) string {
	var username string
	row := s.db.QueryRow("SELECT username FROM users WHERE id = ?", userID)
	if err := row.Scan(&username); err != nil {
		return "someone"
	}
	return username
}
