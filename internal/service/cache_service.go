package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// CacheRepository abstracts persistence for cached console payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheConfig configures one cache tier (list pages or dashboard views).
type CacheConfig struct {
	Name    string
	TTL     time.Duration
	Enabled bool
}

// CacheService wraps a CacheRepository with metrics and failure logging.
// A nil or disabled service behaves as a permanent miss.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	cfg     CacheConfig
	logger  *zap.Logger
}

// NewCacheService constructs a cache tier.
func NewCacheService(repo CacheRepository, metrics *MetricsService, cfg CacheConfig, logger *zap.Logger) *CacheService {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, cfg: cfg, logger: logger.With(zap.String("cache", cfg.Name))}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.repo != nil
}

// Get reads key into dest and reports a hit. A miss is not an error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores value under key; ttl <= 0 uses the tier TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes every key matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// Lookup is Get with every failure treated as a miss.
func (s *CacheService) Lookup(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.Get(ctx, key, dest)
	return err == nil && hit
}

// Store is Set with the error dropped; Set already logged it.
func (s *CacheService) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	_ = s.Set(ctx, key, value, ttl)
}

// readThrough serves key from cache or calls load. A loaded value is cached
// only when keep accepts it (nil keep caches everything). The boolean
// reports a cache hit.
func readThrough[T any](ctx context.Context, cache *CacheService, key string, ttl time.Duration,
	load func(context.Context) (*T, error), keep func(*T) bool) (*T, bool, error) {
	var cached T
	if cache.Lookup(ctx, key, &cached) {
		return &cached, true, nil
	}
	value, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	if value != nil && (keep == nil || keep(value)) {
		cache.Store(ctx, key, value, ttl)
	}
	return value, false, nil
}
