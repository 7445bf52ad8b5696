// Package server exposes the route engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/cors"

	"github.com/pdrpinto/metro"
	"github.com/pdrpinto/metro/network"
)

// DefaultCacheSize bounds both the route cache and the session store.
const DefaultCacheSize = 256

// Options configures a Server.
type Options struct {
	CacheSize      int
	AllowedOrigins []string
	Search         []metro.Option
	Logger         *slog.Logger
}

// Server answers route queries and drives step-by-step sessions.
type Server struct {
	net      *network.Model
	search   []metro.Option
	routes   *lru.Cache[string, metro.Result]
	sessions *sessionStore
	logger   *slog.Logger
	handler  http.Handler
}

// New creates a server over net.
func New(net *network.Model, opts Options) (*Server, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	routes, err := lru.New[string, metro.Result](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create route cache: %w", err)
	}
	sessions, err := newSessionStore(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		net:      net,
		search:   opts.Search,
		routes:   routes,
		sessions: sessions,
		logger:   opts.Logger,
	}

	router := mux.NewRouter()
	router.Use(s.requestID)
	s.RegisterRoutes(router)
	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	return s, nil
}

// RegisterRoutes mounts the API on router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/network", s.handleNetwork).Methods(http.MethodGet)
	api.HandleFunc("/route", s.handleRoute).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/next", s.handleNext).Methods(http.MethodPost)
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestID tags every response with an X-Request-ID and logs the request.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type lineView struct {
	Name     string   `json:"name"`
	Stations []string `json:"stations"`
}

type networkView struct {
	Stations []string   `json:"stations"`
	Lines    []lineView `json:"lines"`
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	view := networkView{Stations: s.net.Stations()}
	for _, line := range s.net.Lines() {
		view.Lines = append(view.Lines, lineView{Name: line, Stations: s.net.StationsOn(line)})
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, goal, err := parseStates(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}

	key := start.String() + "->" + goal.String()
	if result, ok := s.routes.Get(key); ok {
		writeJSON(w, http.StatusOK, result)
		return
	}

	engine, err := metro.New(s.net, start, goal, s.searchOptions()...)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := engine.Run(r.Context())
	if err != nil {
		s.logger.Warn("route failed", "from", start, "to", goal, "error", err)
		writeError(w, err)
		return
	}

	s.routes.Add(key, result)
	s.logger.Debug("route computed", "from", start, "to", goal, "cost", result.Cost, "expanded", result.Expanded)
	writeJSON(w, http.StatusOK, result)
}

type sessionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	start, goal, err := parseStates(req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	engine, err := metro.New(s.net, start, goal, s.searchOptions()...)
	if err != nil {
		writeError(w, err)
		return
	}

	id := s.sessions.add(engine)
	s.logger.Debug("session created", "id", id, "from", start, "to", goal)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	snapshot, err := sess.step()
	view := newStepView(snapshot)
	if err != nil {
		if !errors.Is(err, metro.ErrSearchExhausted) {
			writeError(w, err)
			return
		}
		view.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, view)
}

// searchOptions forces a logger onto every engine.
func (s *Server) searchOptions() []metro.Option {
	opts := make([]metro.Option, 0, len(s.search)+1)
	opts = append(opts, s.search...)
	return append(opts, metro.WithLogger(s.logger))
}

func parseStates(from, to string) (metro.State, metro.State, error) {
	start, err := metro.ParseState(from)
	if err != nil {
		return metro.State{}, metro.State{}, fmt.Errorf("from: %w", err)
	}
	goal, err := metro.ParseState(to)
	if err != nil {
		return metro.State{}, metro.State{}, fmt.Errorf("to: %w", err)
	}
	return start, goal, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, metro.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, metro.ErrSearchExhausted):
		return http.StatusNotFound
	case errors.Is(err, metro.ErrIterationLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
