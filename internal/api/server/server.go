package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/api/middleware"
	"github.com/feral-file/ff-settlement/internal/api/rest"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/market"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/protocol"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigins []string
	Auth         middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	engine     market.Engine
	manager    protocol.Manager
	journal    rest.JournalReader
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, engine market.Engine, manager protocol.Manager, journal rest.JournalReader, m *metrics.Metrics) *Server {
	return &Server{
		config:  cfg,
		engine:  engine,
		manager: manager,
		journal: journal,
		metrics: m,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(s.metrics))
	router.Use(middleware.SetupCORS(s.config.AllowOrigins))

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	restHandler := rest.NewHandler(s.engine, s.manager, s.journal)
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.InfoCtx(ctx, "Starting API server",
		zap.String("address", addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.InfoCtx(ctx, "Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
