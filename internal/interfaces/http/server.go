// Package http is the HTTP adapter: it translates requests into application
// service calls and renders the standard JSON envelope.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrops/traveldesk/internal/application/service"
	"github.com/hrops/traveldesk/internal/export"
	"github.com/hrops/traveldesk/internal/session"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	sessions   *session.Manager
	handlers   *Handlers
	logger     Logger
}

// NewServer creates the HTTP server with all routes wired.
func NewServer(
	config ServerConfig,
	sessions *session.Manager,
	appService service.ApplicationService,
	masterService service.MasterDataService,
	claimService service.ClaimService,
	statements *export.StatementWriter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:   config,
		router:   gin.New(),
		sessions: sessions,
		handlers: NewHandlers(appService, masterService, claimService, statements, logger),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)
	s.router.POST("/auth/login", s.handlers.Login(s.sessions))

	authed := session.Middleware(s.sessions)

	apps := s.router.Group("/travel/applications", authed)
	{
		apps.POST("", s.handlers.CreateApplication)
		apps.GET("", s.handlers.ListApplications)
		apps.GET("/:id", s.handlers.GetApplication)
		apps.PUT("/:id", s.handlers.SaveDraft)
		apps.GET("/:id/validate", s.handlers.ValidateDraft)
		apps.GET("/:id/advance", s.handlers.GetAdvance)
		apps.POST("/:id/advance", s.handlers.RecomputeAdvance)
		apps.POST("/:id/submit", s.handlers.Submit)
		apps.POST("/:id/approve", s.handlers.Approve)
		apps.POST("/:id/reject", s.handlers.Reject)
		apps.POST("/:id/cancel", s.handlers.Cancel)
		apps.POST("/:id/process", s.handlers.Process)
		apps.POST("/:id/close", s.handlers.Close)
		apps.GET("/:id/history", s.handlers.History)
		apps.POST("/:id/claims", s.handlers.AddClaim)
		apps.GET("/:id/claims", s.handlers.ListClaims)
		apps.GET("/:id/reconciliation", s.handlers.Reconciliation)
		apps.GET("/:id/reconciliation/export", s.handlers.ExportReconciliation)
	}

	master := s.router.Group("/master", authed)
	{
		master.GET("/travel-modes", s.handlers.ListModes)
		master.GET("/travel-modes/:id/sub-options", s.handlers.ListSubOptionsByMode)
		master.GET("/travel-sub-options", s.handlers.ListSubOptions)
		master.GET("/locations", s.handlers.ListLocations)
		master.GET("/gl-codes", s.handlers.ListGLCodes)
		master.GET("/guest-houses", s.handlers.ListGuestHouses)
		master.GET("/arc-hotels", s.handlers.ListPanelHotels)
	}
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
