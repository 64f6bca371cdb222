package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/storage"
)

// Runner executes one recommendation workflow.
type Runner interface {
	Run(ctx context.Context, query, namespace string, sessionID int64) (*graph.State, error)
}

// SessionStore is the chat history the API reads and writes.
type SessionStore interface {
	CreateSession(ctx context.Context, userID int64) (*storage.ChatSession, error)
	UpdateSessionTitle(ctx context.Context, id int64, title string) error
	SessionsByUser(ctx context.Context, userID int64) ([]storage.ChatSession, error)
	MessagesBySession(ctx context.Context, sessionID int64) ([]storage.StoredMessage, error)
	Ping(ctx context.Context) error
}

type Server struct {
	runner     Runner
	store      SessionStore
	categories []string
	logger     *slog.Logger
}

func NewServer(runner Runner, store SessionStore, categories []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{runner: runner, store: store, categories: categories, logger: logger}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.Handle("/search/initial", instrument("POST", "/search/initial", s.handleInitialSearch)).Methods("POST")
	router.Handle("/search/chat-sessions", instrument("GET", "/search/chat-sessions", s.handleListSessions)).Methods("GET")
	router.Handle("/search/chat-sessions/{id:[0-9]+}/messages",
		instrument("GET", "/search/chat-sessions/{id}/messages", s.handleListMessages)).Methods("GET")
	router.Handle("/choices/categories", instrument("GET", "/choices/categories", s.handleCategories)).Methods("GET")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	router.Handle("/metrics", promhttp.Handler())
	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exited")
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func instrument(method, endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)

		status := "success"
		if sw.status >= http.StatusBadRequest {
			status = "error"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	})
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string       `json:"error"`
	Step  graph.Step   `json:"step,omitempty"`
	Steps []graph.Step `json:"steps,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONResponse(w, status, errorResponse{Error: msg})
}
