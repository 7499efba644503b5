package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultClaimTTL bounds how long a crashed registration can block a username.
const DefaultClaimTTL = 30 * time.Second

// RegistrationGuard claims usernames across API replicas while a registration
// is in flight.
// Key format: register:<username>
type RegistrationGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRegistrationGuard creates a guard wrapping the given Redis client.
func NewRegistrationGuard(client redis.Cmdable, ttl time.Duration) *RegistrationGuard {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return &RegistrationGuard{client: client, ttl: ttl}
}

// Acquire reports whether this caller now holds the claim on username.
func (g *RegistrationGuard) Acquire(ctx context.Context, username string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key(username), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("registration claim: %w", err)
	}
	return ok, nil
}

// Release drops the claim. Releasing an expired claim is not an error.
func (g *RegistrationGuard) Release(ctx context.Context, username string) error {
	if err := g.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("registration release: %w", err)
	}
	return nil
}

func key(username string) string {
	return "register:" + username
}
