// Package cache provides domain.CacheRepository implementations.
package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/smartdiet/backend/internal/domain"
)

// Repository is a cache that owns resources needing release
type Repository interface {
	domain.CacheRepository
	io.Closer
}

var (
	_ Repository = (*MemoryCache)(nil)
	_ Repository = (*RedisCache)(nil)
)

// KeyPrefix namespaces every key written to a shared Redis server
const KeyPrefix = "smartdiet:"

// New builds the cache selected by cacheType ("memory" or "redis")
func New(ctx context.Context, cacheType, redisURL string) (Repository, error) {
	switch cacheType {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		rc, err := NewRedisCache(ctx, redisURL, KeyPrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cacheType)
	}
}
