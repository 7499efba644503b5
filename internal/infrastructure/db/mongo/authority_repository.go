package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

type AuthorityRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAuthorityRepository(db *mongo.Database) *AuthorityRepository {
	return &AuthorityRepository{db: db, coll: db.Collection(collectionAuthorities)}
}

type mongoAuthority struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"authority"`
}

func (r *AuthorityRepository) FindByID(ctx context.Context, id int64) (*domain.Authority, error) {
	return r.findOne(ctx, bson.M{"_id": id}, func() error {
		return domain.NotFoundByID(domain.KindAuthority, id)
	})
}

func (r *AuthorityRepository) FindByName(ctx context.Context, name string) (*domain.Authority, error) {
	return r.findOne(ctx, bson.M{"authority": name}, func() error {
		return domain.NotFoundByName(domain.KindAuthority, name)
	})
}

func (r *AuthorityRepository) findOne(ctx context.Context, filter bson.M, notFound func() error) (*domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAuthority
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find authority: %w", err)
	}
	return &domain.Authority{ID: ma.ID, Name: ma.Name}, nil
}

func (r *AuthorityRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Authority, error) {
	if len(ids) == 0 {
		return []*domain.Authority{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *AuthorityRepository) List(ctx context.Context) ([]*domain.Authority, error) {
	return r.find(ctx, bson.M{})
}

func (r *AuthorityRepository) find(ctx context.Context, filter bson.M) ([]*domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find authorities: %w", err)
	}
	var docs []mongoAuthority
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authorities: %w", err)
	}

	out := make([]*domain.Authority, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Authority{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (r *AuthorityRepository) Save(ctx context.Context, authority *domain.Authority) (*domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuthority{ID: authority.ID, Name: authority.Name}
	if doc.ID == 0 {
		id, err := nextID(ctx, r.db, collectionAuthorities)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.Duplicate(domain.KindAuthority, authority.Name)
			}
			return nil, fmt.Errorf("insert authority: %w", err)
		}
		return &domain.Authority{ID: doc.ID, Name: doc.Name}, nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.Duplicate(domain.KindAuthority, authority.Name)
		}
		return nil, fmt.Errorf("replace authority: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.NotFoundByID(domain.KindAuthority, doc.ID)
	}
	return &domain.Authority{ID: doc.ID, Name: doc.Name}, nil
}
