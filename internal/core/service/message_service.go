package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
	"github.com/kindapp/marketplace/internal/pkg/metrics"
)

type messageService struct {
	repo ports.MessageRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewMessageService returns a MessageService implementation.
func NewMessageService(repo ports.MessageRepository, log zerolog.Logger) ports.MessageService {
	return &messageService{repo: repo, log: log, now: time.Now}
}

// Post appends a message to a thread. The sender is not checked against the
// participants of the contact request.
func (s *messageService) Post(ctx context.Context, in ports.PostMessageInput) (*domain.Message, error) {
	if in.ContactRequestID == "" || in.SenderID == "" || in.SenderName == "" ||
		in.SenderRole == "" || strings.TrimSpace(in.Text) == "" {
		return nil, domain.Invalid("contact_request_id, sender_id, sender_name, sender_role and message are required")
	}

	role, ok := domain.ParseRole(in.SenderRole)
	if !ok || !role.CanSendMessages() {
		return nil, domain.Invalid("sender_role must be one of: CLIENT, PROVIDER")
	}

	msg := &domain.Message{
		ContactRequestID: in.ContactRequestID,
		SenderID:         in.SenderID,
		SenderName:       in.SenderName,
		SenderRole:       role,
		Text:             in.Text,
		CreatedAt:        stamp(s.now),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	metrics.MessagesPostedTotal.WithLabelValues(string(role)).Inc()
	s.log.Debug().
		Str("contact_request_id", msg.ContactRequestID).
		Str("message_id", msg.ID).
		Str("sender_role", string(role)).
		Msg("message posted")

	return msg, nil
}

// List returns the thread in ascending creation order.
func (s *messageService) List(ctx context.Context, contactRequestID string) ([]*domain.Message, error) {
	msgs, err := s.repo.ListByContactRequest(ctx, contactRequestID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return msgs, nil
}

// MarkRead stamps read_at on a single message.
func (s *messageService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("message id is required")
	}
	return s.repo.MarkRead(ctx, id, stamp(s.now))
}
