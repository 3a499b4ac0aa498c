package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/mkelsen/archivist/internal/config"
	"github.com/mkelsen/archivist/internal/memento"
	"github.com/mkelsen/archivist/internal/observability"
	"github.com/mkelsen/archivist/internal/story"
)

type Server struct {
	cfg       config.Config
	processor *story.Processor
	store     *story.Store
	ledger    memento.Ledger
	metrics   *observability.Metrics
	window    *observability.TurnWindow
	hub       *Hub
	rng       *story.Rand
	upgrader  websocket.Upgrader
}

func New(cfg config.Config, processor *story.Processor, store *story.Store, ledger memento.Ledger,
	metrics *observability.Metrics, window *observability.TurnWindow, hub *Hub, rng *story.Rand) *Server {
	return &Server{
		cfg:       cfg,
		processor: processor,
		store:     store,
		ledger:    ledger,
		metrics:   metrics,
		window:    window,
		hub:       hub,
		rng:       rng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket observers from the same origin
				// unless explicitly opened up. Non-browser clients omit Origin
				// and pass.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "x-signature"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.With(s.verifySignature).Post("/webhook", s.handleWebhook)

	r.Get("/mementos/{conversationId}", s.handleMementos)
	r.Get("/world-context/{conversationId}", s.handleWorldContext)
	r.Get("/debug/{roomId}", s.handleDebug)

	r.Get("/v1/events/ws", s.handleEventsWS)
	r.Get("/v1/perf/turns", s.handlePerfTurns)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"ledger_mode":   s.ledgerMode(),
		"conversations": s.store.Count(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"signature_checked": s.cfg.WebhookSecret != "",
	})
}

func (s *Server) handlePerfTurns(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.window.Snapshot())
}

func (s *Server) ledgerMode() string {
	if _, ok := s.ledger.(*memento.PostgresLedger); ok {
		return "postgres"
	}
	return "in-memory"
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
