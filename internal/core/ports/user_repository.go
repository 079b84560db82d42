package ports

import (
	"context"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// UserRepository persists accounts. Lookups return domain.ErrUserNotFound
// when nothing matches and a wrapped domain.ErrStoreUnavailable on backend
// failures.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository resolves the role attached to a user.
type RoleRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Role, error)
}
