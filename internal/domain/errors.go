package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnavailable is returned when the catalog file cannot be read or parsed
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrMissingColumn is returned when the catalog file lacks a required column
	ErrMissingColumn = errors.New("catalog is missing a required column")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
