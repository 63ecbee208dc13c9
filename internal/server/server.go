package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tmapmcp/internal/config"
	"tmapmcp/internal/mcpserver"
	"tmapmcp/internal/storage"
	"tmapmcp/internal/templates"
)

// Server serves MCP over streamable HTTP, plus a status page and health check.
type Server struct {
	mux       *http.ServeMux
	cfg       *config.Config
	rt        *mcpserver.Runtime
	db        *storage.DB // nil when journaling is disabled
	logger    *slog.Logger
	version   string
	startedAt time.Time
}

// New creates a new Server with all routes registered.
func New(cfg *config.Config, rt *mcpserver.Runtime, db *storage.DB, version string, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		rt:        rt,
		db:        db,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}

	s.mux.Handle("/mcp", requireToken(rt.HTTPHandler(), cfg.MCPToken))
	s.mux.HandleFunc("GET /healthz", s.health)
	s.mux.HandleFunc("GET /{$}", s.status)

	return s
}

// Handler returns the routes wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger)
}

// ListenAndServe serves on cfg.HTTPAddr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr, "auth", s.cfg.MCPToken != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"tools":   s.rt.ToolCount(),
		"journal": s.db != nil,
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	impl := s.rt.Implementation()
	data := templates.StatusData{
		Page:           templates.Page{Title: impl.Name, Version: s.version},
		Server:         impl.Name,
		StartedAt:      s.startedAt.Format(time.DateTime),
		JournalEnabled: s.db != nil,
	}
	for _, t := range s.rt.ListTools() {
		data.Tools = append(data.Tools, templates.ToolRow{Name: t.Name, Description: t.Description})
	}

	if s.db != nil {
		ctx := r.Context()
		stats, err := s.db.CallStats(ctx)
		if err != nil {
			s.logger.Error("loading call stats", "error", err)
		}
		for _, st := range stats {
			data.Stats = append(data.Stats, templates.StatRow{
				Tool:       st.Tool,
				Calls:      st.Calls,
				Empty:      st.Empty,
				Errors:     st.Errors,
				AvgLatency: st.AvgLatency.Round(time.Millisecond).String(),
				LastCalled: st.LastCalled.Local().Format(time.DateTime),
			})
		}
		recent, err := s.db.RecentCalls(ctx, "", 20)
		if err != nil {
			s.logger.Error("loading recent calls", "error", err)
		}
		for _, c := range recent {
			data.Recent = append(data.Recent, templates.CallRow{
				Tool:     c.Tool,
				Status:   c.Status,
				Error:    c.Error,
				Duration: c.Duration.String(),
				CalledAt: c.CalledAt.Local().Format(time.DateTime),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.StatusPage(data).Render(r.Context(), w); err != nil {
		s.logger.Error("rendering status page", "error", err)
	}
}
