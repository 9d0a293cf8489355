// Package backend is the analysis backend's HTTP adapter: it exposes
// claim validation, eligibility, recommendation and document analysis
// over REST, persisting results to SQLite.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/document"
	"github.com/medclaims/claims-dashboard/internal/eligibility"
	"github.com/medclaims/claims-dashboard/internal/recommend"
	"github.com/medclaims/claims-dashboard/internal/repository"
	"github.com/medclaims/claims-dashboard/internal/validator"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UploadDir    string
}

// Server is the analysis backend HTTP server
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer creates the backend server with its routes and middleware
func NewServer(
	config ServerConfig,
	claimValidator *validator.Validator,
	checker *eligibility.Checker,
	engine *recommend.Engine,
	processor *document.Processor,
	claims *repository.ClaimRepository,
	policies *repository.PolicyRepository,
	reviews *repository.ReviewRepository,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())
	router.MaxMultipartMemory = maxUploadBytes

	server := &Server{
		config: config,
		router: router,
		logger: logger,
	}

	handlers := NewHandlers(
		claimValidator, checker, engine, processor,
		claims, policies, reviews,
		config.UploadDir, logger,
	)

	router.GET("/", handlers.HealthCheck)
	router.GET("/api/status", handlers.APIStatus)

	api := router.Group("/api")
	{
		api.POST("/claims/validate", handlers.ValidateClaim)
		api.POST("/claims/submit", handlers.SubmitClaim)
		api.GET("/claims/status/:claim_id", handlers.ClaimStatus)
		api.PUT("/claims/status/:claim_id", handlers.UpdateClaimStatus)
		api.POST("/claims/upload", handlers.UploadDocument)
		api.POST("/claims/analyze-text", handlers.AnalyzeText)

		api.POST("/eligibility/check", handlers.CheckEligibility)
		api.GET("/eligibility/policy/:policy_number", handlers.PolicyDetails)
		api.POST("/eligibility/policy", handlers.CreatePolicy)

		api.POST("/recommendations/generate", handlers.GenerateRecommendation)
		api.GET("/recommendations/history/:claim_id", handlers.RecommendationHistory)
		api.POST("/recommendations/validate", handlers.ValidateRecommendation)
	}

	return server
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Backend server listening", zap.String("addr", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Backend server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("Backend server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Backend server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("Backend server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers for the dashboard proxy
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
