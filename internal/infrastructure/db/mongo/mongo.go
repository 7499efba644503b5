package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idenning2003/fullstack/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second

	collectionUsers       = "users"
	collectionRoles       = "roles"
	collectionAuthorities = "authorities"
	collectionCounters    = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// NewCredentialStore wires the Mongo repositories into the store ports.
func NewCredentialStore(db *mongo.Database) ports.CredentialStore {
	return ports.CredentialStore{
		Users:       NewUserRepository(db),
		Roles:       NewRoleRepository(db),
		Authorities: NewAuthorityRepository(db),
	}
}

// EnsureIndexes creates the unique indexes the repositories rely on to reject
// duplicate names.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	specs := map[string]mongo.IndexModel{
		collectionUsers:       {Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		collectionRoles:       {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		collectionAuthorities: {Keys: bson.D{{Key: "authority", Value: 1}}, Options: unique},
	}
	for coll, model := range specs {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s index: %w", coll, err)
		}
	}

	// role_ids lookups back the role delete cascade
	_, err := db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role_ids", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create users.role_ids index: %w", err)
	}
	return nil
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// nextID hands out monotonically increasing ids per collection.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var c counter
	err := db.Collection(collectionCounters).FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return c.Seq, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
