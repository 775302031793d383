package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrOFFAPIFailure is returned when an Open Food Facts request fails
	ErrOFFAPIFailure = errors.New("open food facts API request failed")

	// ErrNoProducts is returned when a search page contains no products
	ErrNoProducts = errors.New("no products returned")
)
