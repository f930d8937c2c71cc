package cooking

import (
	"sync"

	"github.com/google/uuid"
)

type sessionKey struct {
	userID   uuid.UUID
	recipeID uuid.UUID
}

// Hub fans session snapshots out to live watchers. Every subscriber gets its
// own buffered channel; a subscriber that stops draining misses updates
// instead of blocking publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[sessionKey]map[chan Snapshot]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[sessionKey]map[chan Snapshot]struct{}{}}
}

const subscriberBuffer = 8

// Subscribe registers a watcher for one (user, recipe) session. The returned
// cancel func must be called when the watcher goes away.
func (h *Hub) Subscribe(userID, recipeID uuid.UUID) (<-chan Snapshot, func()) {
	key := sessionKey{userID: userID, recipeID: recipeID}
	ch := make(chan Snapshot, subscriberBuffer)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = map[chan Snapshot]struct{}{}
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[key]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, key)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every watcher of the session. Slow
// subscribers with a full buffer are skipped; the next tick catches them up.
func (h *Hub) Publish(userID, recipeID uuid.UUID, snap Snapshot) {
	key := sessionKey{userID: userID, recipeID: recipeID}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[key] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// WatchedSessions returns the keys that currently have at least one watcher.
// The tick broadcaster uses this to refresh only the sessions somebody is
// looking at.
func (h *Hub) WatchedSessions() []sessionKey {
	h.mu.RLock()
	defer h.mu.RUnlock()

	keys := make([]sessionKey, 0, len(h.subs))
	for key := range h.subs {
		keys = append(keys, key)
	}
	return keys
}
