// Package ws owns the in-process registry of live chat connections. The
// registry is the only piece of shared mutable state in the realtime core:
// a concurrency-safe map from chat token to the small owned set of live
// endpoints for that chat's two participants.
package ws

import (
	log "log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Endpoint is one participant's live duplex connection. *websocket.Conn
// satisfies it; tests substitute fakes.
type Endpoint interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Registry tracks which endpoints are registered under which chat. Endpoints
// never outlive their underlying socket: the connection handler removes them
// on read failure or close.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[Endpoint]uint64
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[Endpoint]uint64),
	}
}

// Add registers an endpoint under a chat. The caller has already verified
// that participantID is one of the chat's two participants.
func (r *Registry) Add(chatID string, ep Endpoint, participantID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[chatID]; !ok {
		r.rooms[chatID] = make(map[Endpoint]uint64)
	}
	r.rooms[chatID][ep] = participantID
}

// Remove unregisters an endpoint. Removing an absent endpoint is a no-op.
func (r *Registry) Remove(chatID string, ep Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eps, ok := r.rooms[chatID]; ok {
		delete(eps, ep)
		if len(eps) == 0 {
			delete(r.rooms, chatID)
		}
	}
}

// Broadcast delivers payload to every endpoint registered under chatID,
// including the sender. A failed write closes and removes that endpoint
// only; the loop continues to the remaining recipients.
func (r *Registry) Broadcast(chatID string, payload []byte) {
	r.broadcast(chatID, 0, payload)
}

// BroadcastExcept is Broadcast minus the endpoints of one participant,
// used when echo-to-sender is disabled. Participant ids are nonzero, so
// zero means skip nobody.
func (r *Registry) BroadcastExcept(chatID string, skipID uint64, payload []byte) {
	r.broadcast(chatID, skipID, payload)
}

func (r *Registry) broadcast(chatID string, skipID uint64, payload []byte) {
	r.mu.RLock()
	eps := make([]Endpoint, 0, len(r.rooms[chatID]))
	for ep, id := range r.rooms[chatID] {
		if skipID == 0 || id != skipID {
			eps = append(eps, ep)
		}
	}
	r.mu.RUnlock()

	for _, ep := range eps {
		if err := ep.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn("chat broadcast write failed", "chatID", chatID, "err", err)
			_ = ep.Close()
			r.Remove(chatID, ep)
		}
	}
}

// Count reports how many endpoints are registered under a chat.
func (r *Registry) Count(chatID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[chatID])
}

// Participants lists the participant ids currently registered under a chat.
func (r *Registry) Participants(chatID string) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint64, 0, len(r.rooms[chatID]))
	for _, id := range r.rooms[chatID] {
		ids = append(ids, id)
	}
	return ids
}
