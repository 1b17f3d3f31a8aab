// Package api exposes a read-only HTTP view of manager state. It never
// mutates the manager; all X state changes go through the event loop.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/schctl/nerdwm/internal/build"
	"github.com/schctl/nerdwm/internal/wm"
	"github.com/schctl/nerdwm/pkg/chiext"
)

// StateSource yields state snapshots; implemented by wm.Manager.
type StateSource interface {
	Snapshot() wm.Snapshot
}

// Server is the status HTTP server. Implements suture.Service.
type Server struct {
	addr   string
	source StateSource
	log    *slog.Logger
}

func NewServer(addr string, source StateSource) *Server {
	return &Server{
		addr:   addr,
		source: source,
		log:    slog.With("component", "api"),
	}
}

func (s *Server) String() string {
	return "api.Server"
}

// Serve runs the HTTP server until ctx is done, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.log.Info("listening", "address", s.addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("shutdown", "error", err)
		}
		<-errC
		return ctx.Err()
	case err := <-errC:
		return err
	}
}

// Router builds the route table; split out so tests drive it without a
// listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	r.Get("/api/state", s.handleState)
	r.Get("/api/version", s.handleVersion)

	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.source.Snapshot())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, build.Current)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
