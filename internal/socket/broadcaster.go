package socket

// Broadcaster is the narrow event-emission surface handed to services.
// It hides the hub's internals; services name the event and the target
// user and never touch connections.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// SendToUser pushes an event to every open connection the user holds.
// A no-op for offline users.
func (b *Broadcaster) SendToUser(userID, event string, payload interface{}) {
	b.hub.SendToUser(userID, event, payload)
}
