// Package server exposes the pipeline and the trade dashboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/deps"
	"dubboard/internal/logging"
	"dubboard/internal/pipeline"
	"dubboard/internal/trade"
)

// Server serves the JSON API and the dashboard pages.
type Server struct {
	bind   string
	cfg    *config.Config
	logger *slog.Logger
	pipe   *pipeline.Pipeline
	trade  *trade.Generator

	listener net.Listener
	server   *http.Server
}

// New builds a server around an existing pipeline.
func New(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		cfg:    cfg,
		logger: logger,
		pipe:   p,
		trade:  trade.NewGenerator(cfg.Dashboard.Seed),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/translate", srv.handleTranslate)
	mux.HandleFunc("/api/jobs", srv.handleJobs)
	mux.HandleFunc("/api/outputs", srv.handleOutputs)
	mux.HandleFunc("/api/languages", srv.handleLanguages)
	mux.HandleFunc("/api/trade/exports", srv.handleTradeExports)
	mux.HandleFunc("/api/trade/partners", srv.handleTradePartners)
	mux.HandleFunc("/api/trade/trends", srv.handleTradeTrends)
	mux.HandleFunc("/api/trade/complexity", srv.handleTradeComplexity)
	mux.HandleFunc("/api/trade/summary", srv.handleTradeSummary)
	mux.HandleFunc("/outputs/", srv.handleOutputFile)
	mux.HandleFunc("/dashboard", srv.handleDashboard)
	mux.HandleFunc("/", srv.handleRoot)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Translate requests run the whole pipeline synchronously, so the
		// write timeout has to outlast the slowest stage.
		WriteTimeout: 45 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

// Handler returns the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving on the configured bind address. Shutdown is tied to
// ctx cancellation.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return fmt.Errorf("no api bind address configured")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	checked := deps.CheckBinaries(deps.Requirements(s.cfg))
	statuses := make([]dependencyStatus, len(checked))
	for i, dep := range checked {
		statuses[i] = dependencyStatus{
			Name:      dep.Name,
			Command:   dep.Command,
			Optional:  dep.Optional,
			Available: dep.Available,
			Detail:    dep.Detail,
		}
	}
	completed, failed := 0, 0
	if store := s.pipe.History(); store != nil {
		completed, failed, _ = store.Counts(r.Context())
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		Running:       true,
		OutputDir:     s.cfg.Paths.OutputDir,
		HistoryDBPath: s.cfg.Pipeline.HistoryDB,
		Completed:     completed,
		Failed:        failed,
		Dependencies:  statuses,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
