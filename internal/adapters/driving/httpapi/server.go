// Package httpapi provides the REST API used by the askontube web client.
//
// User authentication is handled in front of this server; the caller's
// identity arrives in the X-User-ID header.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/askontube/internal/core/ports/driving"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Default configuration values.
const (
	DefaultAddr       = ":8080"
	DefaultUserHeader = "X-User-ID"
	shutdownTimeout   = 10 * time.Second
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: library, answer and feedback services are required")

// Services aggregates the driving ports served over HTTP.
type Services struct {
	// Ingest is optional; ingestion routes return 503 without it.
	Ingest   driving.IngestService
	Answer   driving.AnswerService
	Library  driving.LibraryService
	Feedback driving.FeedbackService
}

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address (default: :8080).
	Addr string

	// AllowedOrigins lists CORS origins. Empty allows localhost dev servers.
	AllowedOrigins []string

	// UserHeader carries the authenticated user id (default: X-User-ID).
	UserHeader string

	// MCP, when set, is served at /mcp alongside the REST routes.
	MCP http.Handler
}

// Server serves the REST API.
type Server struct {
	cfg      Config
	services Services
	engine   *gin.Engine
}

// NewServer builds the router for the given services.
func NewServer(cfg Config, services Services) (*Server, error) {
	if services.Library == nil || services.Answer == nil || services.Feedback == nil {
		return nil, ErrMissingService
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.UserHeader == "" {
		cfg.UserHeader = DefaultUserHeader
	}

	s := &Server{cfg: cfg, services: services}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	if gin.Mode() == gin.DebugMode && !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), s.cors())

	router.GET("/healthz", s.health)
	if s.cfg.MCP != nil {
		router.Any("/mcp", gin.WrapH(s.cfg.MCP))
	}

	api := router.Group("/api")
	{
		api.POST("/videos/preview", s.previewVideo)
		api.GET("/tags", s.listTags)
	}

	user := api.Group("/")
	user.Use(s.requireUser())
	{
		user.POST("/videos", s.ingestVideo)
		user.GET("/videos", s.listVideos)
		user.GET("/videos/:id", s.getVideo)
		user.GET("/videos/:id/transcript", s.getTranscript)
		user.POST("/videos/:id/tags", s.addTag)
		user.DELETE("/videos/:id/tags/:tag", s.removeTag)
		user.POST("/ask", s.ask)
		user.POST("/feedback", s.submitFeedback)
	}

	return router
}

func (s *Server) cors() gin.HandlerFunc {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", s.cfg.UserHeader},
		MaxAge:       12 * time.Hour,
	})
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Infow("REST API listening", "addr", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("httpapi: %w", err)
	}
	return nil
}
