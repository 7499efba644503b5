package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimeout applies to dialing, each command and the startup ping.
const DefaultTimeout = 5 * time.Second

// Config describes the Redis instance that backs the registration guard.
type Config struct {
	Addr     string
	DB       int
	Timeout  time.Duration
	ClaimTTL time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) options() *redis.Options {
	t := c.timeout()
	return &redis.Options{
		Addr:         c.Addr,
		DB:           c.DB,
		DialTimeout:  t,
		ReadTimeout:  t,
		WriteTimeout: t,
	}
}

// Connect dials Redis and pings it once before handing the client out.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// ConnectGuard connects and returns a registration guard over the client.
// The caller owns the client and must close it.
func ConnectGuard(ctx context.Context, cfg Config) (*redis.Client, *RegistrationGuard, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, NewRegistrationGuard(client, cfg.ClaimTTL), nil
}
