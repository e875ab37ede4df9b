package websocket

import "github.com/rs/zerolog/log"

// directMessage targets every connection of a single user.
type directMessage struct {
	userID  string
	payload []byte
}

// Hub maintains the set of active clients and routes messages to them.
// All client-map mutation happens inside Run, so callers interact with the
// hub only through its channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Messages targeting a single user's connections.
	direct chan directMessage

	// Messages targeting connected admin clients.
	admin chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of user IDs to the set of that user's connections.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		direct:        make(chan directMessage, 64),
		admin:         make(chan []byte, 16),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client, client.UserID)
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.trySend(client, message)
			}
		case dm := <-h.direct:
			for client := range h.subscriptions[dm.userID] {
				h.trySend(client, dm.payload)
			}
		case message := <-h.admin:
			for client := range h.clients {
				if client.IsAdmin {
					h.trySend(client, message)
				}
			}
		}
	}
}

// SendToUser delivers a message to every open connection of a user. Users
// with no open connection are silently skipped.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.direct <- directMessage{userID: userID, payload: message}
}

// SendToAdmins delivers a message to every connected admin client.
func (h *Hub) SendToAdmins(message []byte) {
	h.admin <- message
}

// trySend writes to a client's send buffer, evicting the client when the
// buffer is full (slow consumer).
func (h *Hub) trySend(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		close(client.Send)
		delete(h.clients, client)
		h.removeSubscription(client)
	}
}

func (h *Hub) addSubscription(client *Client, userID string) {
	if h.subscriptions[userID] == nil {
		h.subscriptions[userID] = make(map[*Client]bool)
	}
	h.subscriptions[userID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for userID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, userID)
			}
		}
	}
}
