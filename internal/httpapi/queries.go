package httpapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkelsen/archivist/internal/memento"
	"github.com/mkelsen/archivist/internal/story"
)

// handleMementos lists a conversation's mementos with their total value.
func (s *Server) handleMementos(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	var ids []string
	if st, ok := s.store.Snapshot(conversationID); ok {
		ids = st.MementoIDs
	}

	mementos := make([]memento.Memento, 0, len(ids))
	total := 0.0
	for _, id := range ids {
		m, err := s.ledger.Get(r.Context(), id)
		if errors.Is(err, memento.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("memento lookup failed for %s: %v", id, err)
			continue
		}
		mementos = append(mementos, m)
		total += m.Value
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"conversationId": conversationID,
		"mementos":       mementos,
		"totalValue":     total,
		"count":          len(mementos),
	})
}

// handleWorldContext serves the derived environmental snapshot for a
// conversation.
func (s *Server) handleWorldContext(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	turnCount := 0
	if st, ok := s.store.Snapshot(conversationID); ok {
		turnCount = st.TurnCount
	}

	world := story.WorldSnapshot(turnCount, time.Now(), s.rng)
	respondJSON(w, http.StatusOK, map[string]any{
		"conversationId": conversationID,
		"worldState":     world,
		"description":    world.Describe(),
	})
}

// handleDebug dumps the raw tracked state for a room.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	turns := []story.Turn{}
	var ids []string
	if st, ok := s.store.Snapshot(roomID); ok {
		turns = st.Turns
		ids = st.MementoIDs
	}

	mementos := make([]memento.Memento, 0, len(ids))
	for _, id := range ids {
		m, err := s.ledger.Get(r.Context(), id)
		if err != nil {
			continue
		}
		mementos = append(mementos, m)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"storyMemory":   turns,
		"storyProgress": s.processor.ProgressSummary(roomID),
		"mementos":      mementos,
	})
}
