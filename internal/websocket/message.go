package websocket

import "encoding/json"

// Envelope types pushed to connected clients.
const (
	TypeNotification  = "notification"
	TypeDirectMessage = "direct_message"
	TypeAdminStats    = "admin_stats"
	TypeError         = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Encode marshals an envelope for the wire. Marshal failures return nil,
// which the hub treats as nothing to send.
func Encode(msgType string, payload interface{}) []byte {
	b, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		return nil
	}
	return b
}

// NewErrorMessage builds an error envelope for a client.
func NewErrorMessage(msg string) []byte {
	return Encode(TypeError, map[string]string{"message": msg})
}
