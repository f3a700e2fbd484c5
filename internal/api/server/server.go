package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "box-skill-whisper/docs" // Generated swagger docs
	"box-skill-whisper/internal/api/middleware"
	v1routes "box-skill-whisper/internal/api/v1/routes"
	"box-skill-whisper/internal/api/v1/services"
)

type Config struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Environment     string
}

// DefaultConfig returns timeouts suited to long synchronous webhook calls:
// a response is only written once the cards are uploaded.
func DefaultConfig(port, environment string) Config {
	return Config{
		Port:            port,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    20 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
		Environment:     environment,
	}
}

// Server serves the skill webhook, the run status API, metrics and docs.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	startedAt  time.Time
}

// NewServer builds the router. gatherer may be nil to disable /metrics.
func NewServer(config Config, skillService services.SkillService, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	gin.SetMode(ginMode(config.Environment))

	s := &Server{
		config:    config,
		router:    gin.New(),
		logger:    logger,
		startedAt: time.Now(),
	}
	s.router.Use(
		middleware.RequestID(),
		middleware.StructuredLogging(logger),
		middleware.ErrorHandler(logger),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)
	s.registerRoutes(&v1routes.ServiceContainer{SkillService: skillService}, gatherer)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

func ginMode(environment string) string {
	switch environment {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (s *Server) registerRoutes(container *v1routes.ServiceContainer, gatherer prometheus.Gatherer) {
	r := s.router

	r.GET("/", s.index)
	r.GET("/health", s.health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1routes.RegisterWebhook(r, container)
	v1routes.RegisterRoutes(r.Group("/api/v1"), container)
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "Box Skill Whisper",
		"version":       "1.0",
		"documentation": "/swagger/index.html",
		"endpoints": gin.H{
			"webhook": "/webhook",
			"health":  "/health",
			"metrics": "/metrics",
			"runs":    "/api/v1/runs/{file_id}",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().Unix(),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. In-flight
// webhook calls get ShutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Environment),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	s.logger.Info("API server shutdown complete")
	return nil
}

// Router exposes the handler for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
