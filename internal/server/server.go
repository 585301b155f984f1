// Package server exposes diffs, rendered markdown, plans, and session file history over a local JSON HTTP API for the dashboard's web view.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/codalotl/artifactview/internal/artifacts"
	"github.com/codalotl/artifactview/internal/diff"
	"github.com/codalotl/artifactview/internal/markdown"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	Addr string // Listen address for Run (ex: "127.0.0.1:7345").

	// AllowOrigins are the browser origins allowed by CORS. "*" allows any origin. If empty, cross-origin requests are not allowed.
	AllowOrigins []string

	// CacheSize bounds the diff and markdown caches. 0 uses each cache's default; negative disables caching.
	CacheSize int

	LegacyOrderedLists bool // Passed to markdown rendering.

	Logger *slog.Logger // If nil, nothing is logged.
}

// Server serves the HTTP API. Create it with New.
type Server struct {
	history *artifacts.HistoryStore
	plans   *artifacts.PlanStore
	diffs   *diff.Cache
	renders *markdown.Cache
	opts    Options
	logger  *slog.Logger
	engine  *gin.Engine
}

// New returns a Server reading from history and plans.
func New(history *artifacts.HistoryStore, plans *artifacts.PlanStore, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		history: history,
		plans:   plans,
		diffs:   diff.NewCache(opts.CacheSize),
		renders: markdown.NewCache(opts.CacheSize),
		opts:    opts,
		logger:  logger,
		engine:  gin.New(),
	}

	s.engine.Use(requestLogger(logger), gin.Recovery())
	if c, ok := corsConfig(opts.AllowOrigins); ok {
		s.engine.Use(cors.New(c))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.POST("/diff", s.handleDiff)
	api.POST("/markdown", s.handleMarkdown)
	api.GET("/plans", s.handleListPlans)
	api.GET("/plans/:name", s.handleGetPlan)
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id/changes", s.handleListChanges)
	api.GET("/sessions/:id/changes/:backup", s.handleGetChange)
	api.GET("/sessions/:id/edits", s.handleListEdits)
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on Options.Addr and serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. ln is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("serving", "addr", ln.Addr().String())

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
	s.logger.Info("stopped")
	return nil
}

// corsConfig returns the CORS policy for origins. ok is false when no cross-origin access is allowed.
func corsConfig(origins []string) (cfg cors.Config, ok bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	cfg = cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg, true
}

// requestLogger logs one record per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			attrs = append(attrs, "err", errs.String())
		}
		logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}
