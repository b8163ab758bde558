package ports

import (
	"context"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// PostMessageInput carries a new thread entry. All fields are required.
type PostMessageInput struct {
	ContactRequestID string
	SenderID         string
	SenderName       string
	SenderRole       string
	Text             string
}

// MessageService defines the use cases of the message thread store.
type MessageService interface {
	Post(ctx context.Context, input PostMessageInput) (*domain.Message, error)
	List(ctx context.Context, contactRequestID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id string) error
}
