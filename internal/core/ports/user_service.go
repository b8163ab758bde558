package ports

import (
	"context"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	PhoneNumber string
}

// UserService covers the user directory and the provider approval workflow.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfileUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	SearchProviders(ctx context.Context, service, location string) ([]*domain.User, error)
	ListPendingProviders(ctx context.Context) ([]*domain.User, error)
	SetProviderStatus(ctx context.Context, id, status string) error
}
