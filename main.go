package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sweetshop/internal/config"
	"sweetshop/internal/container"
	"sweetshop/internal/handler"
	"sweetshop/internal/middleware"
	"sweetshop/internal/repository"
	"sweetshop/internal/service"
	"sweetshop/pkg/database"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	rateLimiter *middleware.RateLimiter
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	// Close Redis connection with health check
	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	// Close database connection pool with health check
	if r.db != nil {
		r.log.Info("Closing database connection pool...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.db.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Database health check failed before closing")
		}
		healthCancel()

		r.db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting sweetshop server")

	ctx := context.Background()

	// Initialize database connection
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Apply pending schema migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("Failed to run database migrations")
	}

	// Initialize Redis connection
	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	// Create dependency injection container
	c, err := container.New(cfg, log, redisClient, prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	sweetRepo := repository.NewSweetRepository(db)
	sweetService := service.NewSweetService(sweetRepo, redisClient, log)

	// Rate limiter for the auth endpoints
	authLimiter := middleware.NewRateLimiter(1, 10, log)

	// Setup router
	router := setupRouter(c, db, userRepo, sweetService, authLimiter)

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Create resources manager for cleanup
	resources := &Resources{
		db:          db,
		redisClient: redisClient,
		rateLimiter: authLimiter,
		server:      server,
		log:         log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container, db *database.PostgresDB, userRepo repository.UserRepository, sweetService *service.SweetService, authLimiter *middleware.RateLimiter) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	guard := c.GetGuard()

	// Create router
	r := chi.NewRouter()

	// Setup CORS middleware
	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	// Setup middlewares
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(c.GetMetrics().Middleware)
	r.Use(middleware.NewGate(c.GetSessions(), log).Middleware)

	// Create handlers
	healthHandler := handler.NewHealthHandler(c, db)
	authHandler := handler.NewAuthHandler(c, userRepo)
	oauthHandler := handler.NewOAuthHandler(c, userRepo)
	userHandler := handler.NewUserHandler(c, userRepo)
	sweetHandler := handler.NewSweetHandler(sweetService, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Sign-in flow
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)

		r.Get("/google/login", oauthHandler.Login)
		r.Get("/google/callback", oauthHandler.Callback)
		r.Post("/logout", oauthHandler.Logout)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Whoami derives everything from the credential itself
		r.Get("/auth/me", authHandler.Me)

		// Onboarding mints the first credential
		r.With(authLimiter.Middleware).Post("/user", authHandler.Onboard)

		// Current user record, resolved via the provider session
		r.Get("/users/me", userHandler.Me)

		// Admin-only user listing
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdminMiddleware)

			r.Get("/users", userHandler.List)
		})

		// Inventory routes (require authentication)
		r.Route("/sweets", func(r chi.Router) {
			r.Use(guard.RequireAuthMiddleware)

			r.Get("/", sweetHandler.List)
			r.Post("/", sweetHandler.Create)
			r.Get("/search", sweetHandler.Search)
			r.Put("/{id}", sweetHandler.Update)
			r.Post("/{id}/purchase", sweetHandler.Purchase)

			// Admin-only inventory management
			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAdminMiddleware)

				r.Delete("/{id}", sweetHandler.Delete)
				r.Post("/{id}/restock", sweetHandler.Restock)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
