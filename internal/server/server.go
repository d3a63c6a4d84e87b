package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nordunet/transcriber-adapter/internal/reconcile"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the operator surface: health, prometheus metrics and the
// adapter's drain state. Bound to localhost by default; it carries no
// task data and no credentials.
type Server struct {
	addr       string
	workerID   string
	version    string
	ctrl       *reconcile.Controller
	restServer *http.Server
}

func New(addr, workerID, version string, ctrl *reconcile.Controller) *Server {
	return &Server{
		addr:     addr,
		workerID: workerID,
		version:  version,
		ctrl:     ctrl,
	}
}

type StatusReply struct {
	WorkerID string `json:"worker_id"`
	Version  string `json:"version"`
	Draining bool   `json:"draining"`
	Stopping bool   `json:"stopping"`
}

func (s StatusReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		_ = render.Render(w, r, StatusReply{
			WorkerID: s.workerID,
			Version:  s.version,
			Draining: s.ctrl.Draining(),
			Stopping: s.ctrl.Stopping(),
		})
	})
	return router
}

func (s *Server) Start() {
	s.restServer = &http.Server{Addr: s.addr, Handler: s.routes()}

	go func() {
		zap.S().Infof("status server listening on %s", s.addr)
		if err := s.restServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Errorf("status server: %v", err)
		}
	}()
}

func (s *Server) Stop() {
	if s.restServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.restServer.Shutdown(ctx); err != nil {
		zap.S().Warnf("status server shutdown: %v", err)
	}
}
