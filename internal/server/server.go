// Package server provides the HTTP binding for the gateway: a chi router
// exposing the JSON-RPC endpoint, a health probe, and optional bearer auth.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwiater/toolgate/internal/dispatch"
)

// maxBodyBytes bounds the size of an accepted request payload.
const maxBodyBytes = 1 << 20

// Config contains server configuration values.
type Config struct {
	Addr  string
	Token string
}

// Server wires the dispatcher behind an HTTP router. Transport-level
// failures stay at the HTTP layer; everything past parsing is answered with
// a JSON-RPC envelope and status 200.
type Server struct {
	cfg        Config
	router     *chi.Mux
	dispatcher *dispatch.Dispatcher
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, d *dispatch.Dispatcher) *Server {
	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		dispatcher: d,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.With(s.auth).Post("/rpc", s.handleRPC)

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":          "ok",
		"registryVersion": s.dispatcher.Registry().Version(),
	})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	resp := s.dispatcher.Handle(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
