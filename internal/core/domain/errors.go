package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Source Errors.

	// ErrSourceUnavailable indicates a food source is not configured.
	// The aggregator reports such sources as skipped rather than failed.
	ErrSourceUnavailable = errors.New("food source unavailable")

	// ErrSourceTimeout indicates a food source did not answer before its deadline.
	ErrSourceTimeout = errors.New("food source timed out")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthExpired indicates the provider rejected the bearer token.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates token acquisition failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")
)
