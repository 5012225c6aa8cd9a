package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"creeper-desktop/internal/adapter/primary/dispatch"
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
	"creeper-desktop/internal/usecase"
)

const maxPayload = 8 << 20

// IntentSource hands pending listening toggles to the frontend.
type IntentSource interface {
	Drain() int
}

// VisibilityReporter is implemented by window adapters that know whether
// the window is shown.
type VisibilityReporter interface {
	Visible() bool
}

// Server is a primary adapter that exposes the command dispatcher and the
// tray/window event surface over HTTP.
type Server struct {
	dispatcher *dispatch.Dispatcher
	tray       usecase.TrayUseCase
	intents    IntentSource
	window     VisibilityReporter
	server     *http.Server
}

// Option configures optional collaborators.
type Option func(*Server)

// WithIntents enables GET /api/tray/intents.
func WithIntents(src IntentSource) Option {
	return func(s *Server) { s.intents = src }
}

// WithVisibility enables GET /api/window.
func WithVisibility(r VisibilityReporter) Option {
	return func(s *Server) { s.window = r }
}

// NewServer creates the HTTP server bound to addr.
func NewServer(d *dispatch.Dispatcher, tray usecase.TrayUseCase, addr string, opts ...Option) *Server {
	srv := &Server{dispatcher: d, tray: tray}
	for _, opt := range opts {
		opt(srv)
	}

	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routing table without the access log.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/commands", s.handleCommands)
	mux.HandleFunc("POST /api/invoke/{command}", s.handleInvoke)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/tray/{event}", s.handleTray)
	mux.HandleFunc("GET /api/tray/intents", s.handleIntents)
	mux.HandleFunc("GET /api/window", s.handleWindow)
	return mux
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type invokeResponse struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"commands": s.dispatcher.Commands()})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayload))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, invokeResponse{Error: "read body: " + err.Error()})
		return
	}
	result, err := s.dispatcher.Invoke(r.Context(), r.PathValue("command"), payload)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, invokeResponse{Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, invokeResponse{OK: true, Result: result})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dispatcher.GetConfig())
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var req dispatch.SetConfigArgs
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayload)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.dispatcher.SetConfig(*req.Key, *req.Value); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, s.dispatcher.GetConfig())
}

func (s *Server) handleTray(w http.ResponseWriter, r *http.Request) {
	ev, err := domain.ParseTrayEvent(r.PathValue("event"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := s.tray.Handle(r.Context(), ev); err != nil {
		switch {
		case errors.Is(err, domain.ErrTrayExited), errors.Is(err, domain.ErrTrayStopped):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIntents(w http.ResponseWriter, r *http.Request) {
	if s.intents == nil {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"toggles": s.intents.Drain()})
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	state := s.tray.State()
	view := map[string]any{
		"state":   state.Window.String(),
		"exiting": state.Exited,
	}
	if s.window != nil {
		view["visible"] = s.window.Visible()
	}
	respondJSON(w, http.StatusOK, view)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
