// Package devserver is a local stand-in for the dashboard search API. It
// serves the same routes and response shapes from a fixture file so the
// search surface can be run without the real backend.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
)

const isoLayout = "2006-01-02T15:04:05"

// Options configures the dev server handler
type Options struct {
	// Token is the bearer token clients must send; empty disables auth
	Token string
	// Latency delays every search response, to exercise debouncing,
	// cancellation and timeouts against a slow backend
	Latency time.Duration
	Logger  *slog.Logger
}

// Server serves search requests from a Store
type Server struct {
	store   *Store
	token   string
	latency time.Duration
	logger  *slog.Logger
}

// NewServer creates the router for the search API
func NewServer(store *Store, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		store:   store,
		token:   opts.Token,
		latency: opts.Latency,
		logger:  logger.With("component", "devserver"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/health", srv.handleHealth)
	r.Route("/api/search", func(r chi.Router) {
		r.Use(srv.requireToken)
		r.Use(srv.delay)
		r.Get("/", srv.handleSearchAll)
		r.Get("/todos", srv.handleSearchTodos)
		r.Get("/notes", srv.handleSearchNotes)
	})

	return gzhttp.GzipHandler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSearchAll(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "query required"})
		return
	}
	if len([]rune(query)) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "query must be at least 2 characters"})
		return
	}

	todos := s.store.SearchTodos(query, DefaultLimit)
	notes := s.store.SearchNotes(query, DefaultLimit)
	writeJSON(w, http.StatusOK, map[string]any{
		"query": query,
		"results": map[string]any{
			"todos": todoDocs(todos),
			"notes": noteDocs(notes),
			"total": len(todos) + len(notes),
		},
	})
}

func (s *Server) handleSearchTodos(w http.ResponseWriter, r *http.Request) {
	query, limit, ok := scopedParams(w, r)
	if !ok {
		return
	}
	todos := s.store.SearchTodos(query, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": todoDocs(todos),
		"total":   len(todos),
	})
}

func (s *Server) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	query, limit, ok := scopedParams(w, r)
	if !ok {
		return
	}
	notes := s.store.SearchNotes(query, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": noteDocs(notes),
		"total":   len(notes),
	})
}

// scopedParams reads q and limit; the scoped routes accept one-character
// queries and an unparsable limit falls back to the default
func scopedParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "query required"})
		return "", 0, false
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		limit = DefaultLimit
	}
	return query, limit, true
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "Missing Authorization Header"})
			return
		}
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token != s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "Token has expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 {
			t := time.NewTimer(s.latency)
			defer t.Stop()
			select {
			case <-t.C:
			case <-r.Context().Done():
				s.logger.Debug("client went away", "request_id", middleware.GetReqID(r.Context()))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.Query().Get("q"),
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Python's isoformat without an offset, which is what the real API sends
func isoformat(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(isoLayout)
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func todoDocs(todos []Todo) []map[string]any {
	docs := make([]map[string]any, 0, len(todos))
	for _, t := range todos {
		docs = append(docs, map[string]any{
			"id":          t.ID,
			"title":       t.Title,
			"description": t.Description,
			"completed":   t.Completed,
			"priority":    t.Priority,
			"tags":        tagsOrEmpty(t.Tags),
			"due_date":    isoformat(t.DueDate),
			"created_at":  isoformat(t.CreatedAt),
			"updated_at":  isoformat(t.UpdatedAt),
		})
	}
	return docs
}

func noteDocs(notes []Note) []map[string]any {
	docs := make([]map[string]any, 0, len(notes))
	for _, n := range notes {
		docs = append(docs, map[string]any{
			"id":         n.ID,
			"title":      n.Title,
			"content":    n.Content,
			"category":   n.Category,
			"tags":       tagsOrEmpty(n.Tags),
			"color":      n.Color,
			"pinned":     n.Pinned,
			"created_at": isoformat(n.CreatedAt),
			"updated_at": isoformat(n.UpdatedAt),
		})
	}
	return docs
}
