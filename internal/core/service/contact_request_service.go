package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
	"github.com/kindapp/marketplace/internal/pkg/metrics"
)

type ContactRequestService struct {
	repo     ports.ContactRequestRepository
	users    ports.UserRepository
	notifier *Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewContactRequestService(
	repo ports.ContactRequestRepository,
	users ports.UserRepository,
	notifier *Notifier,
	logger zerolog.Logger,
) *ContactRequestService {
	return &ContactRequestService{repo: repo, users: users, notifier: notifier, logger: logger, now: time.Now}
}

// stamp returns now at the precision Mongo stores, so a freshly written record
// reads back unchanged.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// Create stores a new contact request. Requests are approved on creation, so
// created_at and approved_at are the same instant. No notification is sent on
// this path; only UpdateStatus notifies.
func (s *ContactRequestService) Create(ctx context.Context, input ports.CreateContactRequestInput) (*ports.ContactRequestResult, error) {
	if input.ClientID == "" || input.ProviderID == "" {
		return nil, domain.Invalid("client_id and provider_id are required")
	}

	now := stamp(s.now)
	approvedAt := now
	req := &domain.ContactRequest{
		ClientID:     input.ClientID,
		ClientName:   input.ClientName,
		ProviderID:   input.ProviderID,
		ProviderName: input.ProviderName,
		Message:      input.Message,
		Status:       domain.RequestApproved,
		CreatedAt:    now,
		ApprovedAt:   &approvedAt,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Str("client_id", input.ClientID).Str("provider_id", input.ProviderID).Msg("failed to create contact request")
		return nil, fmt.Errorf("create contact request: %w", err)
	}

	metrics.ContactRequestsCreatedTotal.Inc()
	s.logger.Info().
		Str("contact_request_id", req.ID).
		Str("client_id", req.ClientID).
		Str("provider_id", req.ProviderID).
		Msg("contact request created")

	return &ports.ContactRequestResult{
		ID:         req.ID,
		Status:     req.Status,
		CreatedAt:  req.CreatedAt,
		ApprovedAt: approvedAt,
	}, nil
}

// ListAll returns every contact request, newest first.
func (s *ContactRequestService) ListAll(ctx context.Context) ([]*domain.ContactRequest, error) {
	return s.list(ctx, ports.ContactRequestFilter{SortBy: ports.SortByCreatedAt})
}

// ListForClient returns the client's requests, newest first.
func (s *ContactRequestService) ListForClient(ctx context.Context, clientID string) ([]*domain.ContactRequest, error) {
	return s.list(ctx, ports.ContactRequestFilter{ClientID: clientID, SortBy: ports.SortByCreatedAt})
}

// ListForProvider returns the provider's approved requests, most recently approved first.
func (s *ContactRequestService) ListForProvider(ctx context.Context, providerID string) ([]*domain.ContactRequest, error) {
	return s.list(ctx, ports.ContactRequestFilter{
		ProviderID: providerID,
		Status:     domain.RequestApproved,
		SortBy:     ports.SortByApprovedAt,
	})
}

func (s *ContactRequestService) list(ctx context.Context, f ports.ContactRequestFilter) ([]*domain.ContactRequest, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	if out == nil {
		out = []*domain.ContactRequest{}
	}
	return out, nil
}

// UpdateStatus approves or rejects an existing request. Approval stamps
// approved_at and notifies admin, client and provider; a failed notification
// never undoes the status change.
func (s *ContactRequestService) UpdateStatus(ctx context.Context, id, status string) error {
	next, ok := domain.ParseRequestStatus(status)
	if !ok {
		return domain.Invalid("status must be one of: approved, rejected")
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	var approvedAt *time.Time
	if next == domain.RequestApproved {
		t := stamp(s.now)
		approvedAt = &t
	}

	if err := s.repo.UpdateStatus(ctx, id, next, approvedAt); err != nil {
		return fmt.Errorf("update contact request status: %w", err)
	}

	metrics.ContactRequestStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	s.logger.Info().Str("contact_request_id", id).Str("status", string(next)).Msg("contact request status updated")

	if next != domain.RequestApproved {
		return nil
	}

	req.Status = next
	req.ApprovedAt = approvedAt
	client := s.lookupUser(ctx, req.ClientID)
	provider := s.lookupUser(ctx, req.ProviderID)
	s.notifier.ContactApproved(ctx, req, client, provider)
	return nil
}

// lookupUser fetches a participant for notification purposes. A missing or
// unreadable user yields an empty record so the remaining notifications still go out.
func (s *ContactRequestService) lookupUser(ctx context.Context, id string) *domain.User {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("participant lookup failed")
		}
		return &domain.User{}
	}
	return u
}
