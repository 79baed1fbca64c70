// Package router wires the gin engine and manages the HTTP server lifecycle.
package router

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.simplylaw.agent/internal/config"
	"dev.simplylaw.agent/internal/handlers"
	"dev.simplylaw.agent/internal/observability"
)

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(cfg *config.Config, h *handlers.AnalysisHandler, metrics *observability.Metrics) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	if metrics != nil {
		engine.Use(metricsMiddleware(metrics))
	}
	if cfg.Server.EnableCORS {
		engine.Use(corsMiddleware(cfg.Server.CORSOrigins))
	}

	api := engine.Group("/api")
	{
		api.POST("/chat", h.Chat)
		api.POST("/analyze", h.Analyze)
		api.POST("/draft-communication", h.DraftCommunication)
		api.GET("/conversations/:id/export", h.ExportConversation)
		api.GET("/agents", h.ListAgents)
		api.GET("/health", h.Health)
	}

	if metrics != nil && cfg.Monitoring.Enabled {
		engine.GET(cfg.Monitoring.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	return engine
}

func metricsMiddleware(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestCount.WithLabelValues(
			c.Request.Method, endpoint, fmt.Sprintf("%d", c.Writer.Status()),
		).Inc()
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := "*"
	if len(origins) > 0 {
		allowed = origins[0]
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Server wraps the gin engine with lifecycle management.
type Server struct {
	engine *gin.Engine
	server *http.Server
	config *config.Config
	log    *logrus.Logger

	mu      sync.Mutex
	running bool
}

func NewServer(cfg *config.Config, engine *gin.Engine, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		engine: engine,
		config: cfg,
		log:    log,
	}
}

// Start begins serving; it blocks until the listener stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	s.log.WithField("addr", addr).Info("HTTP server listening")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}
	s.running = false

	s.log.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
