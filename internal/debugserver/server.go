// Package debugserver exposes the running park's state over HTTP for
// inspection while developing.
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/game"
	"github.com/folio3d/parkwalk/internal/logger"
)

const shutdownTimeout = 2 * time.Second

// Source provides park snapshots. *game.Game satisfies it.
type Source interface {
	Snapshot() game.Snapshot
}

// Server serves the debug endpoints.
type Server struct {
	addr    string
	source  Source
	started time.Time
	log     *zap.Logger
}

// New creates a server for addr, e.g. "127.0.0.1:6060".
func New(addr string, source Source) *Server {
	return &Server{
		addr:    addr,
		source:  source,
		started: time.Now(),
		log:     logger.Named("debug"),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Route("/debug", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/state", s.state)
		r.Get("/registry", s.registry)
		r.Get("/registry/{name}", s.object)
	})
	return r
}

// Serve listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("debug server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("debug server stopped")
	return nil
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.source.Snapshot())
}

func (s *Server) registry(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	objects := snap.Objects
	if objects == nil {
		objects = []game.ObjectState{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"load_state": snap.LoadState,
		"count":      len(objects),
		"objects":    objects,
	})
}

func (s *Server) object(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, o := range s.source.Snapshot().Objects {
		if o.Name == name {
			respondJSON(w, http.StatusOK, o)
			return
		}
	}
	respondError(w, http.StatusNotFound, "object not registered: "+name)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Named("debug").Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
