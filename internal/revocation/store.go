// Package revocation tracks session tokens invalidated before their natural
// expiry (logout). Entries only need to live until the token would have
// expired anyway, so every store drops them at that point.
package revocation

import (
	"context"
	"time"
)

// Store is a set of revoked token ids with per-entry expiry.
type Store interface {
	// Revoke marks jti as revoked until expiresAt.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Default is the process-wide store used by the auth middleware. main swaps
// in a RedisStore when Redis is reachable.
var Default Store = NewMemoryStore(time.Minute)
