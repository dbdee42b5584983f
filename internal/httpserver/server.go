// internal/httpserver/server.go
//
// HTTP surface for the Wordle bot.
// Responsibilities:
//   - Router + middleware (JSON, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Chat ingress: POST /channels/{channel}/messages feeds a message to the
//     bot exactly as a chat platform would and returns the reply.
//   - History: GET /channels/{channel}/stats, GET /channels/{channel}/history.
//   - Owner auth: POST /auth/token exchanges the owner password for a JWT;
//     a valid token marks ingress messages as coming from the owner.
//
// Notes:
//   - Optional auth decorates requests with the owner flag when a valid token
//     is present; everyone else can still play.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-bot/internal/bot"
	"github.com/robalobadob/wordle-bot/internal/history"
)

// Transport scopes channels reached through HTTP ingress, so a URL cannot
// name a channel owned by another transport.
const Transport = "http"

// Handler is the chat command layer.
type Handler interface {
	Handle(ctx context.Context, m bot.Message) (string, bool)
}

// HistoryReader serves finished-game history.
type HistoryReader interface {
	ChannelStats(ctx context.Context, channel string) (history.Stats, error)
	Recent(ctx context.Context, channel string, limit int) ([]history.Record, error)
}

// WordStats reports loaded word list sizes.
type WordStats interface {
	Stats() (answers int, allowed int)
}

// Deps are the collaborators the server routes to. History and Metrics may be nil.
type Deps struct {
	Bot     Handler
	History HistoryReader
	Words   WordStats
	Metrics http.Handler
	Auth    Auth
}

// Server bundles the router and its collaborators.
type Server struct {
	r       *chi.Mux
	bot     Handler
	history HistoryReader
	words   WordStats
	auth    Auth
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), bot: d.Bot, history: d.History, words: d.Words, auth: d.Auth}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if d.Metrics != nil {
		s.r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordle-bot","endpoints":["/health","/metrics","POST /auth/token","POST /channels/{channel}/messages","/channels/{channel}/stats"]}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := s.words.Stats()
			_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
		})

		r.Post("/auth/token", s.handleToken)

		r.With(s.withOptionalOwner()).Post("/channels/{channel}/messages", s.handleMessage)
		r.Get("/channels/{channel}/stats", s.handleStats)
		r.Get("/channels/{channel}/history", s.handleHistory)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ----------------------------- CHAT INGRESS --------------------------------

type messageReq struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}
type messageRes struct {
	Reply   string `json:"reply,omitempty"`
	Handled bool   `json:"handled"`
}

// handleMessage passes a chat message to the bot and returns its reply.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	channel := chi.URLParam(r, "channel")
	reply, ok := s.bot.Handle(r.Context(), bot.Message{
		Transport: Transport,
		Channel:   channel,
		Author:    req.Author,
		Owner:     isOwner(r),
		Text:      req.Text,
	})
	log.Debug().Str("channel", channel).Bool("handled", ok).Msg("http message")
	_ = json.NewEncoder(w).Encode(messageRes{Reply: reply, Handled: ok})
}

// ------------------------------ HISTORY ------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, `{"error":"history_disabled"}`, http.StatusNotFound)
		return
	}
	st, err := s.history.ChannelStats(r.Context(), bot.ChannelKey(Transport, chi.URLParam(r, "channel")))
	if err != nil {
		log.Error().Err(err).Msg("channel stats")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, `{"error":"history_disabled"}`, http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	recs, err := s.history.Recent(r.Context(), bot.ChannelKey(Transport, chi.URLParam(r, "channel")), limit)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(recs)
}
