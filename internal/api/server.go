// Package api exposes the permit registry over HTTP: search, lookup,
// batch ingestion, duplicate review, and reference data, all as JSON
// under /api/v2/permits.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/permit-registry/internal/config"
	"github.com/sells-group/permit-registry/internal/db"
	"github.com/sells-group/permit-registry/internal/ingest"
	"github.com/sells-group/permit-registry/internal/store"
)

// Server hosts the HTTP API over a shared connection pool.
type Server struct {
	pool   db.Pool
	store  *store.Store
	engine *ingest.Engine
	cfg    config.ServerConfig
	log    *zap.Logger
}

// NewServer wires the API against a pool and the ingestion engine.
func NewServer(pool db.Pool, engine *ingest.Engine, cfg config.ServerConfig) *Server {
	return &Server{
		pool:   pool,
		store:  store.New(pool),
		engine: engine,
		cfg:    cfg,
		log:    zap.L().With(zap.String("component", "api")),
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.cfg.RateLimitPerSecond > 0 {
		burst := s.cfg.RateLimitBurst
		if burst <= 0 {
			burst = int(s.cfg.RateLimitPerSecond)
		}
		r.Use(rateLimit(rate.Limit(s.cfg.RateLimitPerSecond), burst))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v2/permits", func(r chi.Router) {
		r.Get("/search", s.handleSearchGet)
		r.Post("/search", s.handleSearchPost)
		r.Get("/lookup", s.handleLookup)
		r.Get("/stats/overview", s.handleStats)
		r.Post("/batch", s.handleBatch)

		r.Get("/duplicates", s.handleListDuplicates)
		r.Post("/duplicates/{id}/resolve", s.handleResolveDuplicate)

		r.Route("/ref", func(r chi.Router) {
			r.Get("/states", s.handleListStates)
			r.Get("/counties", s.handleListCounties)
			r.Get("/system-types", s.handleListSystemTypes)
			r.Get("/portals", s.handleListPortals)
		})

		r.Get("/{id}", s.handleGetPermit)
		r.Get("/{id}/history", s.handleHistory)
	})

	return r
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	s.log.Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "api: listen")
	}
	return nil
}

// rateLimit applies a shared token bucket across all requests. County
// data consumers tend to poll aggressively; this keeps the pool honest.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
