package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/prachar-hq/apiserver/internal/identity"
	"github.com/prachar-hq/apiserver/types"
)

const usersCollection = "users"

// UserRepository handles lookups against the principals collection. The
// collection is written by the admin workflow, never by this service.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{coll: database.Collection(usersCollection)}
}

// FindActiveByConditions returns the first active principal matching any of
// the lookup conditions. Records without an active flag predate it and
// count as active. An empty condition list short-circuits to ErrNotFound.
func (r *UserRepository) FindActiveByConditions(ctx context.Context, conditions []identity.Condition) (types.Principal, error) {
	if len(conditions) == 0 {
		return types.Principal{}, ErrNotFound
	}

	or := make(bson.A, 0, len(conditions))
	for _, c := range conditions {
		var value any
		if c.Numeric {
			value = c.Num
		} else {
			value = c.Str
		}
		or = append(or, bson.M{string(c.Field): value})
	}

	filter := bson.M{
		"$and": bson.A{
			bson.M{"$or": or},
			bson.M{"$or": bson.A{
				bson.M{"active": true},
				bson.M{"active": bson.M{"$exists": false}},
			}},
		},
	}

	var principal types.Principal
	if err := r.coll.FindOne(ctx, filter).Decode(&principal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Principal{}, ErrNotFound
		}
		return types.Principal{}, err
	}
	return principal, nil
}
