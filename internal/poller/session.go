package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/pkg/client"
)

// Badge names and the store keys their markers live under.
const (
	BadgePendingProviders = "pending_providers"
	BadgeContactRequests  = "contact_requests"
	BadgeConversations    = "conversations"

	keyAdminLastRead    = "admin_last_read_count"
	keyProviderLastRead = "provider_last_read_count"
	keyConversationSeen = "conversation_last_seen"
	keyTheme            = "theme"

	DefaultTheme = "light"
)

// Identity is who the session belongs to.
type Identity struct {
	UserID string
	Name   string
	Role   domain.Role
}

type SessionConfig struct {
	Identity Identity
	Token    string
	Client   *client.Client
	Store    SeenStore
	Interval time.Duration
	Logger   zerolog.Logger
	OnChange ChangeFunc
}

// Session is the application state of one signed-in dashboard: identity,
// display preferences and the badges for its role.
type Session struct {
	Identity Identity
	Token    string

	api    *client.Client
	store  SeenStore
	log    zerolog.Logger
	theme  string
	badges []Badge
	poller *Poller
}

// Open builds the badges for the identity's role and starts polling.
func Open(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.Identity.UserID == "" {
		return nil, errors.New("session: user id is required")
	}
	if cfg.Client == nil {
		return nil, errors.New("session: api client is required")
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}

	s := &Session{
		Identity: cfg.Identity,
		Token:    cfg.Token,
		api:      cfg.Client.WithToken(cfg.Token),
		store:    store,
		log:      cfg.Logger.With().Str("user_id", cfg.Identity.UserID).Str("role", string(cfg.Identity.Role)).Logger(),
		theme:    DefaultTheme,
	}

	if theme, ok, err := store.Get(ctx, keyTheme); err != nil {
		s.log.Warn().Err(err).Msg("read theme")
	} else if ok && theme != "" {
		s.theme = theme
	}

	badges, err := s.buildBadges()
	if err != nil {
		return nil, err
	}
	s.badges = badges

	s.poller = New(cfg.Interval, s.log, cfg.OnChange, badges...)
	s.poller.Start(ctx)
	return s, nil
}

func (s *Session) buildBadges() ([]Badge, error) {
	switch s.Identity.Role {
	case domain.RoleAdmin:
		return []Badge{NewCountBadge(BadgePendingProviders, keyAdminLastRead, s.countPendingProviders, s.store, s.log)}, nil
	case domain.RoleProvider:
		return []Badge{NewCountBadge(BadgeContactRequests, keyProviderLastRead, s.countProviderRequests, s.store, s.log)}, nil
	case domain.RoleClient:
		return []Badge{NewCutoffBadge(BadgeConversations, keyConversationSeen, s.conversationApprovals, s.store, s.log)}, nil
	}
	return nil, fmt.Errorf("session: unsupported role %q", s.Identity.Role)
}

func (s *Session) countPendingProviders(ctx context.Context) (int, error) {
	pending, err := s.api.PendingProviders(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

func (s *Session) countProviderRequests(ctx context.Context) (int, error) {
	reqs, err := s.api.ListProviderRequests(ctx, s.Identity.UserID)
	if err != nil {
		return 0, err
	}
	return len(reqs), nil
}

func (s *Session) conversationApprovals(ctx context.Context) ([]time.Time, error) {
	reqs, err := s.api.ListClientRequests(ctx, s.Identity.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(reqs))
	for _, r := range reqs {
		if r.ApprovedAt != nil {
			out = append(out, *r.ApprovedAt)
		}
	}
	return out, nil
}

// Badges returns the role's badges in display order.
func (s *Session) Badges() []Badge { return s.badges }

// Badge looks a badge up by name.
func (s *Session) Badge(name string) (Badge, bool) {
	for _, b := range s.badges {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

func (s *Session) Theme() string { return s.theme }

func (s *Session) SetTheme(ctx context.Context, theme string) error {
	if err := s.store.Set(ctx, keyTheme, theme); err != nil {
		return err
	}
	s.theme = theme
	return nil
}

// Close stops polling, flushes buffered store writes and releases a store
// that holds a connection.
func (s *Session) Close() error {
	s.poller.Stop()
	var errs []error
	if f, ok := s.store.(Flusher); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush seen store: %w", err))
		}
	}
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close seen store: %w", err))
		}
	}
	return errors.Join(errs...)
}
