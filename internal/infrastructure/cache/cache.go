// Package cache provides the response cache behind domain.CacheRepository.
package cache

import (
	"context"
	"fmt"

	"github.com/ecorec/backend/internal/domain"
)

// Store is a cache repository that owns resources
type Store interface {
	domain.CacheRepository
	Close() error
}

// New builds the cache selected by cacheType ("memory" or "redis")
func New(ctx context.Context, cacheType, redisURL string) (Store, error) {
	switch cacheType {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		rc, err := NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cacheType)
	}
}
