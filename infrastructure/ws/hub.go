package ws

import (
	"log"
	"sync"
)

// Hub tracks the live connections of each user. One user may hold several
// concurrent connections (devices, tabs); every one of them receives the
// events published for that user.
type Hub struct {
	clients       map[string]map[*UserClient]bool
	mu            sync.RWMutex
	onUserOnline  func(userId string)
	onUserOffline func(userId string)
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*UserClient]bool),
	}
}

func (h *Hub) RegisterClient(client *UserClient) {
	h.mu.Lock()
	conns, ok := h.clients[client.UserId]
	if !ok {
		conns = make(map[*UserClient]bool)
		h.clients[client.UserId] = conns
	}
	conns[client] = true
	first := len(conns) == 1
	h.mu.Unlock()

	log.Printf("%s is connected (%d connection(s))", client.UserId, len(conns))

	if first && h.onUserOnline != nil {
		h.onUserOnline(client.UserId)
	}
}

func (h *Hub) UnregisterClient(client *UserClient) {
	h.mu.Lock()
	last := false
	if conns, ok := h.clients[client.UserId]; ok {
		if _, registered := conns[client]; registered {
			delete(conns, client)
			close(client.send)
			if len(conns) == 0 {
				delete(h.clients, client.UserId)
				last = true
			}
			log.Printf("%s is disconnected", client.UserId)
		}
	}
	h.mu.Unlock()

	if last && h.onUserOffline != nil {
		h.onUserOffline(client.UserId)
	}
}

// SendToUser delivers a message to every live connection of the user.
// Best-effort: a connection whose send buffer is full is skipped, never
// blocked on.
func (h *Hub) SendToUser(userId string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userId] {
		select {
		case client.send <- message:
		default:
			log.Printf("Dropping message for slow connection of user %s", userId)
		}
	}
}

func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userId, conns := range h.clients {
		for client := range conns {
			select {
			case client.send <- message:
			default:
				log.Printf("Dropping broadcast for slow connection of user %s", userId)
			}
		}
	}
}

func (h *Hub) ConnectionCount(userId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userId])
}

// OnlineUsers lists every user with at least one live connection.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]string, 0, len(h.clients))
	for userId := range h.clients {
		users = append(users, userId)
	}
	return users
}

func (h *Hub) SetOnUserOnline(callback func(userId string)) {
	h.onUserOnline = callback
}

func (h *Hub) SetOnUserOffline(callback func(userId string)) {
	h.onUserOffline = callback
}
