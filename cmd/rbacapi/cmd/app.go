package cmd

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idenning2003/fullstack/internal/core/ports"
	"github.com/idenning2003/fullstack/internal/infrastructure/db/memory"
	mongostore "github.com/idenning2003/fullstack/internal/infrastructure/db/mongo"
	redisstore "github.com/idenning2003/fullstack/internal/infrastructure/db/redis"
	"github.com/idenning2003/fullstack/internal/infrastructure/queue"
	"github.com/idenning2003/fullstack/internal/infrastructure/security"
	"github.com/idenning2003/fullstack/internal/pkg/config"
)

// app is the wiring shared by serve and seed.
type app struct {
	store  ports.CredentialStore
	guard  ports.RegistrationGuard
	hasher *security.BcryptHasher
	pool   *queue.Pool

	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	redis       *goredis.Client
}

// newApp connects the configured store and guard and starts the hashing pool
// on ctx. Call close when done.
func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.mongoClient, a.mongoDB = client, db
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			a.close(ctx)
			return nil, err
		}
		a.store = mongostore.NewCredentialStore(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	default:
		a.store = memory.NewStore().CredentialStore()
		log.Warn().Msg("using in-memory store; data is lost on exit")
	}

	if cfg.Redis.Addr != "" {
		rdb, guard, err := redisstore.ConnectGuard(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
			ClaimTTL: cfg.Redis.ClaimTTL,
		})
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = rdb
		a.guard = guard
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		a.guard = memory.NewRegistrationGuard()
	}

	a.pool = queue.NewPool(cfg.Hash.Workers, log)
	a.pool.Start(ctx)
	a.hasher = security.NewBcryptHasher(cfg.Hash.Cost, a.pool)
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}
}
