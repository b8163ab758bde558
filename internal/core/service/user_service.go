package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
	"github.com/kindapp/marketplace/internal/pkg/metrics"
)

// UserService implements the user directory and the provider approval workflow.
type UserService struct {
	repo     ports.UserRepository
	notifier *Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewUserService(repo ports.UserRepository, notifier *Notifier, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

// Register creates an account. Providers start pending and trigger an admin alert.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return nil, domain.Invalid("name, email, password and role are required")
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, domain.Invalid("role must be one of: CLIENT, PROVIDER, ADMIN")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.InitialStatus(role),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		CreatedAt:    stamp(s.now),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("status", string(created.Status)).Msg("user registered")

	if created.IsProvider() {
		s.notifier.ProviderRegistered(ctx, created)
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.list(ctx, ports.UserFilter{})
}

// UpdateProfile applies the non-empty fields of patch.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch domain.ProfileUpdate) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, domain.Invalid("no fields to update")
	}
	if patch.Role != "" {
		role, ok := domain.ParseRole(patch.Role)
		if !ok {
			return nil, domain.Invalid("role must be one of: CLIENT, PROVIDER, ADMIN")
		}
		patch.Role = string(role)
	}
	if patch.Email != "" {
		patch.Email = normalizeEmail(patch.Email)
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteUser removes the user together with every contact request it takes part in.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	removed, err := s.repo.DeleteWithContactRequests(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Int64("contact_requests_removed", removed).Msg("user deleted")
	return nil
}

// SearchProviders lists active providers whose service and location contain
// the given fragments, ignoring case. Empty fragments match everything.
func (s *UserService) SearchProviders(ctx context.Context, service, location string) ([]*domain.User, error) {
	return s.list(ctx, ports.UserFilter{
		Role:     domain.RoleProvider,
		Status:   domain.StatusActive,
		Service:  strings.TrimSpace(service),
		Location: strings.TrimSpace(location),
	})
}

func (s *UserService) ListPendingProviders(ctx context.Context) ([]*domain.User, error) {
	return s.list(ctx, ports.UserFilter{Role: domain.RoleProvider, Status: domain.StatusPending})
}

// SetProviderStatus records an admin decision. The write is unconditional:
// approving an already active provider succeeds again and notifies again.
func (s *UserService) SetProviderStatus(ctx context.Context, id, status string) error {
	next := domain.UserStatus(status)
	if next != domain.StatusActive && next != domain.StatusRejected {
		return domain.Invalid("status must be one of: active, rejected")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrProviderNotFound
		}
		return err
	}
	if !user.IsProvider() {
		return domain.ErrNotProvider
	}

	if !user.Status.CanTransitionTo(next) {
		s.logger.Warn().Str("user_id", id).Str("from", string(user.Status)).Str("to", string(next)).Msg("provider status re-applied outside pending")
	}

	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return fmt.Errorf("set provider status: %w", err)
	}
	user.Status = next

	metrics.ProviderStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.logger.Info().Str("user_id", id).Str("status", string(next)).Msg("provider status updated")

	s.notifier.ProviderStatusChanged(ctx, user, next)
	return nil
}

func (s *UserService) list(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	users, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
