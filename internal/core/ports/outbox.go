package ports

import (
	"context"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// Outbox accepts notifications for asynchronous delivery. Implementations must
// not block the caller and never report delivery failures back to it.
type Outbox interface {
	EnqueueNotification(ctx context.Context, n domain.Notification)
}

// SMSGateway delivers a text message to one or more phone numbers.
type SMSGateway interface {
	Send(ctx context.Context, to []string, message string) error
}
