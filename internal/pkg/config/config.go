package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/idenning2003/fullstack/internal/infrastructure/security"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token  TokenConfig
	Admin  AdminConfig
	Store  StoreConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Paging PagingConfig
	Hash   HashConfig
}

type TokenConfig struct {
	Secret         string `env:"TOKEN_SECRET, required"`
	ExpiresMinutes int    `env:"TOKEN_EXPIRES_MINUTES, default=1440"`

	// SecretBytes is Secret decoded; filled by Load.
	SecretBytes []byte
}

// TTL converts ExpiresMinutes to a duration.
func (t TokenConfig) TTL() time.Duration {
	return time.Duration(t.ExpiresMinutes) * time.Minute
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD, default=password"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rbac"`
}

// RedisConfig is optional. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB, default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=5s"`
	ClaimTTL time.Duration `env:"REDIS_CLAIM_TTL, default=30s"`
}

type PagingConfig struct {
	DefaultSize int `env:"PAGE_SIZE_DEFAULT, default=10"`
	MaxSize     int `env:"PAGE_SIZE_MAX,     default=100"`
}

type HashConfig struct {
	Cost    int `env:"HASH_COST,    default=10"`
	Workers int `env:"HASH_WORKERS, default=0"`
}

// IsDevelopment reports whether ENV selects development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit lookuper, used by tests.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	secret, err := security.DecodeSecret(c.Token.Secret)
	if err != nil {
		return err
	}
	c.Token.SecretBytes = secret

	if c.Token.ExpiresMinutes <= 0 {
		return fmt.Errorf("TOKEN_EXPIRES_MINUTES must be positive, got %d", c.Token.ExpiresMinutes)
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}

	if c.Paging.DefaultSize <= 0 || c.Paging.MaxSize < c.Paging.DefaultSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.Paging.DefaultSize, c.Paging.MaxSize)
	}
	if c.Hash.Workers <= 0 {
		c.Hash.Workers = runtime.NumCPU()
	}
	return nil
}
