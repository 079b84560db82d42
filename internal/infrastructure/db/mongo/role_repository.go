package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID          int            `bson:"_id"`
	Name        string         `bson:"name"`
	Permissions map[string]any `bson:"permissions,omitempty"`
}

// FindByID returns nil and no error when the role does not exist.
func (r *RoleRepository) FindByID(ctx context.Context, id int) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find role", err)
	}
	return &domain.Role{ID: mr.ID, Name: mr.Name, Permissions: mr.Permissions}, nil
}
