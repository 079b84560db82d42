package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"hashed_password"`
	IsActive     bool   `bson:"is_active"`
	IsVerified   bool   `bson:"is_verified"`
	IsSuperuser  bool   `bson:"is_superuser"`
	RoleID       int    `bson:"role_id"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		IsSuperuser:  u.IsSuperuser,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		IsActive:     mu.IsActive,
		IsVerified:   mu.IsVerified,
		IsSuperuser:  mu.IsSuperuser,
		RoleID:       mu.RoleID,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toMongoUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, unavailable("insert user", err)
	}
	created := *user
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"email":           doc.Email,
		"hashed_password": doc.PasswordHash,
		"is_active":       doc.IsActive,
		"is_verified":     doc.IsVerified,
		"is_superuser":    doc.IsSuperuser,
		"role_id":         doc.RoleID,
		"updated_at":      doc.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return unavailable("update user", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return unavailable("delete user", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, unavailable("find user", err)
	}
	return mu.toDomain(), nil
}
