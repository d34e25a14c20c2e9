package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event names pushed to connected clients. The invitation and member
// events are emitted by the services; ping/pong keep connections alive.
const (
	EventInvitationReceived  = "invitation.received"
	EventInvitationResponded = "invitation.responded"
	EventMemberJoined        = "member.joined"

	EventPing = "ping"
	EventPong = "pong"
)

// Message is the wire envelope for every event pushed to a client.
type Message struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// directMessage routes a serialized message to every connection a user
// holds.
type directMessage struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients, indexed by user ID so that
// events can be delivered to every open connection a user has.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	direct     chan *directMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		direct:      make(chan *directMessage, 256),
	}
}

// Run starts the hub's main loop. Call in a goroutine.
func (h *Hub) Run() {
	log.Println("[WS] hub started")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case dm := <-h.direct:
			h.deliverToUser(dm)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.userClients[client.UserID] == nil {
		h.userClients[client.UserID] = make(map[*Client]bool)
	}
	h.userClients[client.UserID][client] = true

	log.Printf("[WS] client registered: user=%s id=%s total=%d",
		client.UserID, client.ID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	if clients, ok := h.userClients[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	close(client.Send)
	log.Printf("[WS] client disconnected: user=%s id=%s total=%d",
		client.UserID, client.ID, len(h.clients))
}

func (h *Hub) deliverToUser(dm *directMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userClients[dm.userID]
	if !ok {
		// Offline users simply miss live events; state lives in the
		// database, not in the socket layer.
		return
	}

	for client := range clients {
		select {
		case client.Send <- dm.message:
		default:
			// Slow consumer; drop the connection rather than block
			// the hub.
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

// SendToUser queues an event for every connection the user holds.
// Non-blocking for callers; safe to invoke from request handlers and
// services.
func (h *Hub) SendToUser(userID, event string, payload interface{}) {
	msg := Message{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] marshal error for event %s: %v", event, err)
		return
	}

	h.direct <- &directMessage{userID: userID, message: data}
}

// IsUserOnline reports whether the user has at least one open
// connection.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.userClients[userID]
	return ok
}
