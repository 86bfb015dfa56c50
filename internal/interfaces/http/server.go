// Package http is the in-memory development backend. It serves the same
// REST surface the dashboard client consumes, so the client can run and be
// tested without the real service.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// GroupedPageSize is the number of dates per grouped-by-date page
	GroupedPageSize int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "127.0.0.1",
		Port:            8000,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		GroupedPageSize: 10,
	}
}

// Server is the stub backend HTTP server
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	store      *Store
	tokens     *TokenIssuer
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over store
func NewServer(config ServerConfig, store *Store, tokens *TokenIssuer, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.GroupedPageSize <= 0 {
		config.GroupedPageSize = DefaultServerConfig().GroupedPageSize
	}

	server := &Server{
		config: config,
		router: gin.New(),
		store:  store,
		tokens: tokens,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware logs one line per request
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) setupRoutes() {
	h := NewHandlers(s.store, s.tokens, s.config.GroupedPageSize, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/login/", h.Login)
		api.POST("/register/", h.Register)
		api.POST("/logout/", h.Logout)
	}

	auth := api.Group("", h.Authenticate)
	{
		auth.GET("/items/", h.ListItems)
		auth.POST("/items/", h.RequireAdmin, h.CreateItem)
		auth.PUT("/items/:id/", h.RequireAdmin, h.UpdateItem)
		auth.GET("/items/:id/price-history/", h.PriceHistory)

		auth.GET("/orders/", h.ListOrders)
		auth.POST("/orders/", h.CreateOrder)
		auth.PUT("/orders/:id/", h.RequireAdmin, h.VerifyOrder)
		auth.GET("/orders/grouped-by-date/", h.RequireAdmin, h.GroupedOrders)
		auth.GET("/orders/available-dates/", h.AvailableDates)
		auth.PUT("/order-items/:id/", h.UpdateOrderItem)
		auth.DELETE("/order-items/:id/", h.DeleteOrderItem)

		auth.GET("/expenses/", h.RequireAdmin, h.ListExpenses)
		auth.GET("/expenses/mydata/", h.MyExpenses)
		auth.POST("/expenses/", h.CreateExpense)
		auth.PUT("/expenses/:id/", h.UpdateExpense)
		auth.DELETE("/expenses/:id/", h.DeleteExpense)

		auth.GET("/notifications/", h.Notifications)
		auth.GET("/profile/", h.Profile)
		auth.PUT("/profile/", h.UpdateProfile)
	}
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
