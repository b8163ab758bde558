package ports

import (
	"context"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// AuthService issues bearer tokens for directory accounts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
