package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkelsen/archivist/internal/protocol"
)

const feedBuffer = 64

// Hub fans processed-turn events out to websocket observers. Publishing
// never blocks turn processing: a subscriber whose buffer is full simply
// misses events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan protocol.TurnFeedEvent
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan protocol.TurnFeedEvent)}
}

func (h *Hub) Subscribe() (string, <-chan protocol.TurnFeedEvent) {
	ch := make(chan protocol.TurnFeedEvent, feedBuffer)
	id := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

func (h *Hub) Publish(ev protocol.TurnFeedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the number of connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// handleEventsWS streams processed-turn summaries to an observing client.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, feed := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)

	// Reader goroutine only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
