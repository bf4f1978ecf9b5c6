// Package idserver is the HTTP service that hands out task identifiers.
package idserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const generateFailed = "Failed to generate ID"

type Handler struct {
	gen    Generator
	logger *zap.Logger
}

func NewHandler(gen Generator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gen: gen, logger: logger}
}

func (h *Handler) Identifier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.generate(r)
	if !ok {
		respondError(w, http.StatusInternalServerError, generateFailed)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

// LegacyKSUID serves the older response shape still used by some clients.
func (h *Handler) LegacyKSUID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.generate(r)
	if !ok {
		respondError(w, http.StatusInternalServerError, generateFailed)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"ksuid": id})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) generate(r *http.Request) (string, bool) {
	id, err := h.gen.NewID()
	if err != nil {
		h.logger.Error("failed to generate identifier",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		return "", false
	}
	return id, true
}

func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/identifier", h.Identifier)
		r.Get("/ksuid", h.LegacyKSUID)
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
