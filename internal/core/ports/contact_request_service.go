package ports

import (
	"context"
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// CreateContactRequestInput is the DTO passed from the transport layer.
type CreateContactRequestInput struct {
	ClientID     string
	ClientName   string
	ProviderID   string
	ProviderName string
	Message      string
}

// ContactRequestResult is returned after creating a contact request.
type ContactRequestResult struct {
	ID         string
	Status     domain.RequestStatus
	CreatedAt  time.Time
	ApprovedAt time.Time
}

// ContactRequestService defines the use cases of the contact request store.
type ContactRequestService interface {
	Create(ctx context.Context, input CreateContactRequestInput) (*ContactRequestResult, error)
	ListAll(ctx context.Context) ([]*domain.ContactRequest, error)
	ListForClient(ctx context.Context, clientID string) ([]*domain.ContactRequest, error)
	ListForProvider(ctx context.Context, providerID string) ([]*domain.ContactRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
