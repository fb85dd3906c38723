// Package server exposes the item pipeline over HTTP for non-terminal
// clients. Submissions return the draft id right away; clients poll the
// list endpoints (or watch isLoading flip) for the outcome.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
	"github.com/moeghashim/X-RAY/internal/sweep"
)

// Server routes HTTP requests onto the store and pipeline.
type Server struct {
	store        *store.Store
	orchestrator *pipeline.Orchestrator
	router       chi.Router
}

// New builds the router with all routes and middleware attached.
func New(st *store.Store, orchestrator *pipeline.Orchestrator, cfg config.ServerConfig) *Server {
	s := &Server{
		store:        st,
		orchestrator: orchestrator,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", s.handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Post("/items", s.handleSubmit)
		r.Get("/items", s.handleList)
		r.Delete("/items/{id}", s.handleDelete)
		r.Get("/counts", s.handleCounts)
		r.Post("/maintenance/sweep", s.handleSweep)
	})

	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	id, err := s.orchestrator.Submit(r.Context(), req.Text, store.Category(req.Category))
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptySubmission) {
			writeBadRequest(w, err.Error())
			return
		}
		// Invalid category is the other validation failure; anything
		// else is a store problem.
		if !store.Category(req.Category).Valid() {
			writeBadRequest(w, err.Error())
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	category := store.Category(r.URL.Query().Get("category"))
	if !category.Valid() {
		writeBadRequest(w, "category must be one of: learning, news, inspiration")
		return
	}

	items, err := s.store.ListByCategory(category)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		writeNotFound(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.Counts()
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	cleaned, err := sweep.Run(s.store)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleaned": cleaned})
}

// requestLogger writes one line per request to the application log.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
