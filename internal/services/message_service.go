package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
	ws "github.com/linkup-social/linkup-be/internal/websocket"
)

const conversationPageSize = 100

// MessageServiceProvider defines the interface for direct messaging.
type MessageServiceProvider interface {
	SendMessage(senderID, recipientID, content string) (models.Message, error)
	GetConversation(userID, peerID string) ([]models.Message, error)
}

// MessageService persists direct messages and pushes them to the recipient's
// open connections.
type MessageService struct {
	db       *sql.DB
	notifSvc NotificationServiceProvider
	pusher   Pusher
}

// NewMessageService creates a new MessageService. The pusher may be nil.
func NewMessageService(db *sql.DB, notifSvc NotificationServiceProvider, pusher Pusher) *MessageService {
	return &MessageService{db: db, notifSvc: notifSvc, pusher: pusher}
}

// SendMessage persists a direct message and delivers it best-effort.
func (s *MessageService) SendMessage(senderID, recipientID, content string) (models.Message, error) {
	if senderID == recipientID {
		return models.Message{}, apperrors.Wrap(apperrors.ErrValidation, "you cannot message yourself")
	}
	if content == "" {
		return models.Message{}, apperrors.Wrap(apperrors.ErrValidation, "message content is required")
	}

	var exists int
	row := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", recipientID)
	if err := row.Scan(&exists); err != nil {
		return models.Message{}, err
	}
	if exists == 0 {
		return models.Message{}, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
	}

	msg := models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	_, err := s.db.Exec(
		"INSERT INTO messages (id, sender_id, recipient_id, content) VALUES (?, ?, ?, ?)",
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content,
	)
	if err != nil {
		return models.Message{}, err
	}

	r := s.db.QueryRow("SELECT created_at FROM messages WHERE id = ?", msg.ID)
	if err := r.Scan(&msg.CreatedAt); err != nil {
		return models.Message{}, err
	}

	if s.pusher != nil {
		if payload := ws.Encode(ws.TypeDirectMessage, msg); payload != nil {
			s.pusher.SendToUser(recipientID, payload)
		}
	}
	s.notifSvc.Notify(recipientID, models.NotifMessage,
		fmt.Sprintf("%s sent you a message", s.usernameOf(senderID)),
		map[string]string{"messageId": msg.ID, "senderId": senderID})

	return msg, nil
}

// GetConversation returns messages between the requester and a peer, oldest
// first, and marks the peer's messages to the requester as read. created_at
// has one-second resolution, so rowid breaks ties in insert order.
func (s *MessageService) GetConversation(userID, peerID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, sender_id, recipient_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at ASC, rowid ASC
		LIMIT ?`,
		userID, peerID, peerID, userID, conversationPageSize,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"UPDATE messages SET is_read = 1 WHERE sender_id = ? AND recipient_id = ? AND is_read = 0",
		peerID, userID,
	)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MessageService) usernameOf(userID string) string {
	var username string
	row := s.db.QueryRow("SELECT username FROM users WHERE id = ?", userID)
	if err := row.Scan(&username); err != nil {
		return "someone"
	}
	return username
}
