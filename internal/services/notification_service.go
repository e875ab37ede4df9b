package services

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/cache"
	"github.com/linkup-social/linkup-be/internal/models"
	ws "github.com/linkup-social/linkup-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Pusher delivers realtime payloads to a user's open connections.
type Pusher interface {
	SendToUser(userID string, message []byte)
}

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	Notify(userID, notifType, content string, metadata map[string]string)
	NotifyMany(userIDs []string, notifType, content string, metadata map[string]string)
	GetNotifications(userID string, limit int) ([]models.Notification, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	DeleteNotification(userID, notificationID string) error
}

// NotificationService persists notification rows and pushes them to
// connected clients.
type NotificationService struct {
	db     *sql.DB
	cache  *cache.RedisCache
	pusher Pusher
}

// NewNotificationService creates a new NotificationService. Both cache and
// pusher may be nil; persistence works without them.
func NewNotificationService(db *sql.DB, redisCache *cache.RedisCache, pusher Pusher) *NotificationService {
	return &NotificationService{db: db, cache: redisCache, pusher: pusher}
}

// Notify creates one notification row for a recipient and pushes it to their
// open connections. Failures are logged and swallowed: the primary social
// action must succeed even when notification persistence fails.
func (s *NotificationService) Notify(userID, notifType, content string, metadata map[string]string) {
	notif := models.Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    notifType,
		Content: content,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Warn().Err(err).Str("type", notifType).Msg("Failed to encode notification metadata")
		} else {
			notif.Metadata = raw
		}
	}

	stmt, err := s.db.Prepare("INSERT INTO notifications (id, user_id, type, content, metadata_json) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", notifType).Msg("Failed to create notification")
		return
	}
	defer stmt.Close()

	var meta interface{}
	if notif.Metadata != nil {
		meta = string(notif.Metadata)
	}
	if _, err := stmt.Exec(notif.ID, notif.UserID, notif.Type, notif.Content, meta); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", notifType).Msg("Failed to create notification")
		return
	}

	s.invalidateUnread(userID)

	if s.pusher != nil {
		if payload := ws.Encode(ws.TypeNotification, notif); payload != nil {
			s.pusher.SendToUser(userID, payload)
		}
	}
}

// NotifyMany fans a notification out to several recipients, one row each.
func (s *NotificationService) NotifyMany(userIDs []string, notifType, content string, metadata map[string]string) {
	for _, id := range userIDs {
		s.Notify(id, notifType, content, metadata)
	}
}

// GetNotifications returns the user's notifications, newest first.
func (s *NotificationService) GetNotifications(userID string, limit int) ([]models.Notification, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, type, content, metadata_json, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var meta sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &meta, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if meta.Valid {
			n.Metadata = json.RawMessage(meta.String)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount returns the number of unread notifications, cache-first with a
// database fallback.
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	ctx := context.Background()

	if s.cache != nil {
		if cached, err := s.cache.GetUnreadCount(ctx, userID); err == nil && cached >= 0 {
			return cached, nil
		}
	}

	var count int64
	row := s.db.QueryRow("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, userID, count); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to cache unread count")
		}
	}
	return count, nil
}

// MarkRead flips a single notification to read. Owned rows only.
func (s *NotificationService) MarkRead(userID, notificationID string) error {
	res, err := s.db.Exec("UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "notification not found")
	}
	s.invalidateUnread(userID)
	return nil
}

// MarkAllRead flips all of the user's notifications to read.
func (s *NotificationService) MarkAllRead(userID string) error {
	_, err := s.db.Exec("UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0", userID)
	if err != nil {
		return err
	}
	s.invalidateUnread(userID)
	return nil
}

// DeleteNotification removes a notification. Owned rows only.
func (s *NotificationService) DeleteNotification(userID, notificationID string) error {
	res, err := s.db.Exec("DELETE FROM notifications WHERE id = ? AND user_id = ?", notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "notification not found")
	}
	s.invalidateUnread(userID)
	return nil
}

func (s *NotificationService) invalidateUnread(userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnreadCount(context.Background(), userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate unread count cache")
	}
}
