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

type RoleRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{db: db, coll: db.Collection(collectionRoles)}
}

type mongoRole struct {
	ID           int64   `bson:"_id"`
	Name         string  `bson:"name"`
	AuthorityIDs []int64 `bson:"authority_ids"`
}

func (m *mongoRole) toDomain() *domain.Role {
	ids := m.AuthorityIDs
	if ids == nil {
		ids = []int64{}
	}
	return &domain.Role{ID: m.ID, Name: m.Name, AuthorityIDs: ids}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id}, func() error {
		return domain.NotFoundByID(domain.KindRole, id)
	})
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name}, func() error {
		return domain.NotFoundByName(domain.KindRole, name)
	})
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M, notFound func() error) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Role, error) {
	if len(ids) == 0 {
		return []*domain.Role{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	out := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *RoleRepository) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRole{ID: role.ID, Name: role.Name, AuthorityIDs: role.AuthorityIDs}
	if doc.AuthorityIDs == nil {
		doc.AuthorityIDs = []int64{}
	}

	if doc.ID == 0 {
		id, err := nextID(ctx, r.db, collectionRoles)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.Duplicate(domain.KindRole, role.Name)
			}
			return nil, fmt.Errorf("insert role: %w", err)
		}
		return doc.toDomain(), nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.Duplicate(domain.KindRole, role.Name)
		}
		return nil, fmt.Errorf("replace role: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.NotFoundByID(domain.KindRole, doc.ID)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFoundByID(domain.KindRole, id)
	}
	return nil
}
