package ports

import (
	"context"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// UserFilter narrows a directory listing. Zero values mean "any".
type UserFilter struct {
	Role     domain.Role
	Status   domain.UserStatus
	Service  string // case-insensitive substring
	Location string // case-insensitive substring
}

// UserRepository is the persistence port of the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns matching users ordered by creation time, newest first.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch domain.ProfileUpdate) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.UserStatus) error
	// DeleteWithContactRequests removes the user and every contact request it
	// participates in, returning how many requests were removed.
	DeleteWithContactRequests(ctx context.Context, id string) (int64, error)
}
