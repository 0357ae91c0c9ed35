// =============================================================================
// Vendor Normalizer - HTTP Server
// =============================================================================
//
// The server exposes the normalization workflow as a JSON API: upload a
// vendor file, adjust the mapping, preview the normalized rows, download the
// CSV and request chart data. Each upload lives in its own session.
//
// ROUTES:
//   POST   /api/uploads
//   GET    /api/sessions/:id
//   DELETE /api/sessions/:id
//   PUT    /api/sessions/:id/mapping/:field
//   POST   /api/sessions/:id/optional/toggle
//   POST   /api/sessions/:id/optional/all
//   POST   /api/sessions/:id/optional/none
//   GET    /api/sessions/:id/normalized
//   GET    /api/sessions/:id/export
//   GET    /api/sessions/:id/fields
//   GET    /api/sessions/:id/chart
//   GET    /healthz
//   GET    /metrics
//
// =============================================================================

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/logging"
	"github.com/ginjaninja78/vendor-normalizer/internal/session"
)

// Server is the HTTP API.
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	strategies converter.Strategies
	sessions   *session.Store
	logger     logging.Logger
}

// New creates a server using cfg and the strategies built from it.
func New(cfg *config.Config, strategies converter.Strategies, logger logging.Logger) *Server {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:     gin.New(),
		cfg:        cfg,
		strategies: strategies,
		sessions:   session.NewStore(cfg.Server.SessionTTL),
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes sets up middleware and routes.
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger), cors())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/uploads", s.Upload)

		sessions := api.Group("/sessions/:id")
		sessions.GET("", s.GetSession)
		sessions.DELETE("", s.DeleteSession)
		sessions.PUT("/mapping/:field", s.SetMapping)
		sessions.POST("/optional/toggle", s.ToggleOptional)
		sessions.POST("/optional/all", s.SelectAllOptional)
		sessions.POST("/optional/none", s.SelectNoneOptional)
		sessions.GET("/normalized", s.Normalized)
		sessions.GET("/export", s.Export)
		sessions.GET("/fields", s.Fields)
		sessions.GET("/chart", s.Chart)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
