package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/adapters/file"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Engine is the part of the calculator core the HTTP surface needs.
type Engine interface {
	Start(sessionID string) *domain.State
	PressAll(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error)
	Restore(ctx context.Context, state *domain.State, index int) (*domain.State, error)
	Evaluate(expression string) (string, error)
}

// Server exposes calculator sessions over JSON/HTTP.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	NewID    func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithIDGenerator overrides the session ID generator (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.NewID = fn
		}
	}
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the reply of POST /evaluate.
type EvaluateResponse struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Error      string `json:"error,omitempty"`
}

// KeysRequest is the body of POST /sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// NewServer builds a Server with defaults applied.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Logger:   logging.NewNop(),
		NewID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)
	return s
}

// NewHandler creates the HTTP handler for the calculator API.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/evaluate", s.Evaluate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/keys", s.PressKeys)
			r.Get("/history", s.GetHistory)
			r.Post("/history/{index}/restore", s.RestoreHistory)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tally-http",
		"version": strings.TrimSpace(tally.Version),
	})
}

// Evaluate handles POST /evaluate. A failed evaluation is still a 200:
// the calculator shows "Error" and the reason is in the error field.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Evaluate: invalid request body", "error", err)
		return
	}
	expression, err := runner.SanitizeInput(body.Expression)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Evaluate: input rejected", "error", err, "size", len(body.Expression))
		return
	}

	resp := EvaluateResponse{Expression: expression}
	result, err := s.Engine.Evaluate(expression)
	if err != nil {
		resp.Result = domain.ResultError
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.NewID()
	if _, err := s.Sessions.LoadOrStart(r.Context(), id); err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	s.Logger.Info("session created", "session_id", id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, runner.NewView(state))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /sessions/{id}/keys. The batch is validated before
// anything is applied.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PressKeys: invalid request body", "error", err)
		return
	}
	keys := make([]domain.Key, 0, len(body.Keys))
	for _, label := range body.Keys {
		k, err := domain.ParseKey(label)
		if err != nil {
			s.fail(w, "PressKeys", err)
			return
		}
		keys = append(keys, k)
	}

	s.update(w, r, id, "PressKeys", func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.Engine.PressAll(ctx, current, keys...)
	})
}

// GetHistory handles GET /sessions/{id}/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetHistory", err)
		return
	}
	history := state.History
	if history == nil {
		history = domain.History{}
	}
	s.writeJSON(w, http.StatusOK, map[string]domain.History{"history": history})
}

// RestoreHistory handles POST /sessions/{id}/history/{index}/restore.
func (s *Server) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid history index", http.StatusBadRequest)
		return
	}
	s.update(w, r, chi.URLParam(r, "id"), "RestoreHistory", func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.Engine.Restore(ctx, current, index)
	})
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). Each update to
// the session is pushed as a JSON view.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Debug("SSE: client subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// update applies fn to an existing session under its lock, then replies
// with the new view and notifies stream subscribers.
func (s *Server) update(w http.ResponseWriter, r *http.Request, id, op string, fn func(context.Context, *domain.State) (*domain.State, error)) {
	ctx := r.Context()
	next, err := s.Sessions.UpdateExisting(ctx, id, func(current *domain.State) (*domain.State, error) {
		return fn(ctx, current)
	})
	if err != nil {
		s.fail(w, op, err)
		return
	}

	view := runner.NewView(next)
	if data, err := json.Marshal(view); err == nil {
		s.Streams.Broadcast(id, string(data))
	}
	s.writeJSON(w, http.StatusOK, view)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownKey), errors.Is(err, file.ErrInvalidSessionID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrHistoryIndex):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.Logger.Error(op+" failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
