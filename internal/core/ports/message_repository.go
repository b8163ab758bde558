package ports

import (
	"context"
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// MessageRepository is the append-only store behind conversation threads.
type MessageRepository interface {
	// Create stores m and assigns m.ID.
	Create(ctx context.Context, m *domain.Message) error
	// ListByContactRequest returns the thread ordered by created_at ascending.
	ListByContactRequest(ctx context.Context, contactRequestID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}
