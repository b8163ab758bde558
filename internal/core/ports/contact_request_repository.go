package ports

import (
	"context"
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// SortField selects the timestamp a contact request listing is ordered by.
type SortField string

const (
	SortByCreatedAt  SortField = "created_at"
	SortByApprovedAt SortField = "approved_at"
)

// ContactRequestFilter carries the query for listing contact requests.
// Results are always ordered descending on SortBy (created_at when empty).
type ContactRequestFilter struct {
	ClientID   string
	ProviderID string
	Status     domain.RequestStatus
	SortBy     SortField
}

// ContactRequestRepository defines persistence operations for contact requests.
type ContactRequestRepository interface {
	// Create stores r and assigns r.ID.
	Create(ctx context.Context, r *domain.ContactRequest) error
	FindByID(ctx context.Context, id string) (*domain.ContactRequest, error)
	List(ctx context.Context, filter ContactRequestFilter) ([]*domain.ContactRequest, error)
	// UpdateStatus sets status and approved_at; a nil approvedAt clears it.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, approvedAt *time.Time) error
}
