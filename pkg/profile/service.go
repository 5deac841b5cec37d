package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/stainley/CareerLaunch/pkg/idp"
)

const cacheKey = "current"

// Service fetches and caches the current user's profile.
type Service struct {
	client idp.Client
	cache  *gocache.Cache
	logger *slog.Logger
}

// Option configures a Service during construction.
type Option func(*serviceConfig)

type serviceConfig struct {
	ttl    time.Duration
	logger *slog.Logger
}

// WithTTL sets how long a fetched profile is served from cache. Defaults to
// five minutes, roughly one dashboard visit.
func WithTTL(ttl time.Duration) Option {
	return func(c *serviceConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = l
	}
}

// NewService creates a profile service over the given identity provider
// client. The client's HTTP transport is expected to inject the bearer token.
func NewService(client idp.Client, opts ...Option) *Service {
	cfg := serviceConfig{
		ttl:    5 * time.Minute,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Service{
		client: client,
		cache:  gocache.New(cfg.ttl, 2*cfg.ttl),
		logger: cfg.logger,
	}
}

// Current returns the cached profile, fetching on a miss.
func (s *Service) Current(ctx context.Context) (idp.UserProfile, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(idp.UserProfile), nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the profile unconditionally, replacing the cached copy.
// Call it on each dashboard mount.
func (s *Service) Refresh(ctx context.Context) (idp.UserProfile, error) {
	p, err := s.client.UserInfo(ctx)
	if err != nil {
		// A failed refresh must not serve a profile from a dead session.
		s.cache.Delete(cacheKey)
		return idp.UserProfile{}, fmt.Errorf("profile: refresh: %w", err)
	}

	s.cache.SetDefault(cacheKey, p)
	return p, nil
}

// Invalidate drops the cached profile. Call on logout so the next session
// cannot observe the previous user's data.
func (s *Service) Invalidate() {
	s.cache.Delete(cacheKey)
}
