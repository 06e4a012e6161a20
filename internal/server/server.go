// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	rateLimitMax    = 300
	rateLimitWindow = time.Minute
)

// Server owns the HTTP listener and its dependencies.
type Server struct {
	http   *http.Server
	router *router.Router
	redis  *middleware.RedisStore
}

// New builds the full application: repositories over the given pool,
// controllers, middleware stack and route table.
func New(db *gorm.DB) *Server {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	store := storage.NewManager()

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	// Rate limiting counts in Redis when configured so limits hold across
	// replicas; otherwise in-process.
	var redis *middleware.RedisStore
	var counter middleware.CounterStore
	if addr := config.RedisAddr(); addr != "" {
		rs, err := middleware.NewRedisStore(addr, config.RedisPassword())
		if err != nil {
			logger.Warn("redis unavailable, using in-process rate limiting", "error", err)
		} else {
			counter = rs
			redis = rs
		}
	}
	if counter == nil {
		counter = middleware.NewMemoryStore()
	}
	r.Use(middleware.RateLimit(counter, rateLimitMax, rateLimitWindow))

	routes.Register(r, routes.Deps{
		Users:      controllers.NewUserController(userRepo),
		Products:   controllers.NewProductController(productRepo, store),
		Categories: controllers.NewCategoryController(categoryRepo),
		Cart:       controllers.NewCartController(cartRepo),
		Orders:     controllers.NewOrderController(orderRepo),
		Reviews:    controllers.NewReviewController(reviewRepo),
		Health:     controllers.NewHealthController(db),
		Identity:   userRepo,
	})

	r.HandleFunc("/metrics", metrics.Handler())

	return &Server{
		http: &http.Server{
			Addr:         ":" + config.AppPort(),
			Handler:      r.Handler(),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		router: r,
		redis:  redis,
	}
}

// Router exposes the route table for the CLI and tests.
func (s *Server) Router() *router.Router { return s.router }

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the context is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.http.Addr, "env", config.AppEnv())
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return nil
}
