package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/mkelsen/archivist/internal/protocol"
	"github.com/mkelsen/archivist/internal/signature"
)

type ctxKey int

const rawBodyKey ctxKey = iota

const maxWebhookBody = 1 << 20

// verifySignature authenticates the webhook before any state is touched.
// The signature covers the exact raw body bytes, so the middleware buffers
// the body once and hands it to the handler through the request context.
func (s *Server) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable_body", "could not read request body")
			return
		}
		_ = r.Body.Close()

		if s.cfg.WebhookSecret == "" {
			// Configuration error, not an authentication failure.
			log.Printf("WEBHOOK_SECRET is not set; rejecting webhook")
			respondError(w, http.StatusInternalServerError, "config_error", "webhook secret is not set")
			return
		}

		sig := r.Header.Get(signature.Header)
		if sig == "" {
			if !s.cfg.IsDevelopment() {
				respondError(w, http.StatusForbidden, "missing_signature", "missing signature")
				return
			}
			// Development bypass: unsigned requests pass; signed-but-wrong
			// ones still fail below.
		} else if !signature.Verify(body, sig, s.cfg.WebhookSecret) {
			respondError(w, http.StatusForbidden, "invalid_signature", "invalid signature")
			return
		}

		ctx := context.WithValue(r.Context(), rawBodyKey, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, _ := r.Context().Value(rawBodyKey).([]byte)

	var ev protocol.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}
	if err := ev.Validate(); err != nil {
		if errors.Is(err, protocol.ErrMissingRoomID) || errors.Is(err, protocol.ErrMissingText) {
			respondError(w, http.StatusBadRequest, "missing_fields", "Missing required fields")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_event", err.Error())
		return
	}

	resp, err := s.processor.Process(r.Context(), ev)
	if err != nil {
		log.Printf("webhook processing failed for %s: %v", ev.RoomID, err)
		respondError(w, http.StatusInternalServerError, "processing_error", "event processing failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
