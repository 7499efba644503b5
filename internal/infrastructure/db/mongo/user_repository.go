package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

type UserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, coll: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           int64   `bson:"_id"`
	Username     string  `bson:"username"`
	PasswordHash string  `bson:"password_hash"`
	Firstname    string  `bson:"firstname,omitempty"`
	Lastname     string  `bson:"lastname,omitempty"`
	RoleIDs      []int64 `bson:"role_ids"`
	CreatedAt    int64   `bson:"created_at"`
	UpdatedAt    int64   `bson:"updated_at"`
}

func (m *mongoUser) toDomain() *domain.User {
	roles := m.RoleIDs
	if roles == nil {
		roles = []int64{}
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Firstname:    m.Firstname,
		Lastname:     m.Lastname,
		RoleIDs:      roles,
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, func() error {
		return domain.NotFoundByID(domain.KindUser, id)
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, func() error {
		return domain.NotFoundByName(domain.KindUser, username)
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, notFound func() error) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if offset < 0 {
		offset = 0
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		RoleIDs:      user.RoleIDs,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    now.Unix(),
	}
	if doc.RoleIDs == nil {
		doc.RoleIDs = []int64{}
	}

	if doc.ID == 0 {
		id, err := nextID(ctx, r.db, collectionUsers)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		doc.CreatedAt = now.Unix()
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.Duplicate(domain.KindUser, user.Username)
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return doc.toDomain(), nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.Duplicate(domain.KindUser, user.Username)
		}
		return nil, fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.NotFoundByID(domain.KindUser, doc.ID)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFoundByID(domain.KindUser, id)
	}
	return nil
}

func (r *UserRepository) RemoveRole(ctx context.Context, roleID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"role_ids": roleID},
		bson.M{"$pull": bson.M{"role_ids": roleID}},
	)
	if err != nil {
		return 0, fmt.Errorf("detach role %d: %w", roleID, err)
	}
	return res.ModifiedCount, nil
}
