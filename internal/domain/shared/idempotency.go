package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed request references to prevent duplicate processing
type IdempotencyStore interface {
	// MarkProcessed marks a reference as processed with a TTL
	// Returns true if the reference was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, reference string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a reference has already been processed
	IsProcessed(ctx context.Context, reference string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed references
	// After this duration, the same reference can be processed again
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
