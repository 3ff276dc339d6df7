// Package server exposes a snapshot store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /layouts
//	GET    /layouts/{name}
//	PUT    /layouts/{name}
//	DELETE /layouts/{name}
//	GET    /layouts/{name}/stats
//	GET    /layouts/{name}/dot      ?format=svg  ?detailed=true
//	POST   /validate
//
// Layout bodies use the layout JSON format of package layout. Errors are
// returned as {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dockspace/pkg/observability"
	"github.com/matzehuels/dockspace/pkg/store"
)

// MaxBodyBytes limits the size of request bodies.
const MaxBodyBytes = 4 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the layout API.
type Server struct {
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by s. A nil logger discards log output.
func New(s store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(nopWriter{})
	}
	srv := &Server{store: s, logger: logger}
	srv.router = srv.routes()
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(s.observe)

		r.Get("/healthz", s.handleHealth)
		r.Post("/validate", s.handleValidate)

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Put("/", s.handlePut)
				r.Delete("/", s.handleDelete)
				r.Get("/stats", s.handleStats)
				r.Get("/dot", s.handleDOT)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// observe logs each request and reports it to the HTTP hooks. Subrouters
// finish matching inside next, so the route pattern is read only after next
// returns; OnRequest gets the raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(ctx, r.Method, route, status, duration)

		kv := []any{
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(ctx),
		}
		switch {
		case status >= 500:
			s.logger.Error("request", kv...)
		case route == "/healthz":
			s.logger.Debug("request", kv...)
		default:
			s.logger.Info("request", kv...)
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
