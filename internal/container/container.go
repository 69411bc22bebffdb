package container

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"sweetshop/internal/auth"
	"sweetshop/internal/config"
	"sweetshop/internal/metrics"
	"sweetshop/internal/middleware"
	"sweetshop/internal/session"
	"sweetshop/internal/token"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.Collector
	Codec       *token.Codec
	Carrier     *token.Carrier
	Guard       *middleware.Guard
	RedisClient *redis.Client
	Sessions    *session.Store
	Google      *auth.GoogleProvider
}

// New creates a new dependency injection container. redisClient is required:
// provider sessions live in Redis. reg receives the Prometheus metrics; tests
// pass a fresh registry to avoid duplicate registration.
func New(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, reg prometheus.Registerer) (*Container, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	codec, err := token.NewCodec(cfg.JWTSecret, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	collector := metrics.NewCollector(reg)

	return &Container{
		Config:      cfg,
		Logger:      log,
		Metrics:     collector,
		Codec:       codec,
		Carrier:     token.NewCarrier(cfg.IsProduction()),
		Guard:       middleware.NewGuard(codec, collector, log),
		RedisClient: redisClient,
		Sessions:    session.NewStore(redisClient, log),
		Google:      auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL, log),
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetMetrics returns the metrics collector
func (c *Container) GetMetrics() *metrics.Collector {
	return c.Metrics
}

// GetCodec returns the token codec
func (c *Container) GetCodec() *token.Codec {
	return c.Codec
}

// GetCarrier returns the cookie carrier
func (c *Container) GetCarrier() *token.Carrier {
	return c.Carrier
}

// GetGuard returns the authentication guard
func (c *Container) GetGuard() *middleware.Guard {
	return c.Guard
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// GetSessions returns the provider session store
func (c *Container) GetSessions() *session.Store {
	return c.Sessions
}

// GetGoogle returns the Google OAuth provider
func (c *Container) GetGoogle() *auth.GoogleProvider {
	return c.Google
}
