// Package api exposes the engine over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires the router's dependencies.
type RouterConfig struct {
	Service        Service
	Identity       IdentityProvider
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLog())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	h := NewHandler(cfg.Service)

	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/submit_product", h.SubmitProduct)
		api.GET("/get_scraper_results", h.RecentResults)
		api.GET("/products/alternatives", h.Alternatives)
	}

	user := api.Group("/user")
	user.Use(RequireAuth(cfg.Identity))
	{
		user.GET("/profile", h.Profile)
		user.POST("/products", h.AddProduct)
		user.GET("/products", h.ListProducts)
		user.DELETE("/products/:productId", h.RemoveProduct)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Server runs the router until its context is cancelled.
type Server struct {
	http *http.Server
}

// NewServer creates a server for handler listening on address.
func NewServer(address string, handler http.Handler) *Server {
	return &Server{http: &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
