package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/pkg/client"
)

func fakeAPI(t *testing.T, pending *atomic.Int32) *httptest.Server {
	t.Helper()
	approved := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/pending-providers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		out := make([]client.User, pending.Load())
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /contact-requests/provider/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]client.ContactRequest{{ID: "cr_1"}, {ID: "cr_2"}})
	})
	mux.HandleFunc("GET /contact-requests/client/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]client.ContactRequest{{ID: "cr_1", ApprovedAt: &approved}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_AdminBadgeFollowsPendingProviders(t *testing.T) {
	ctx := context.Background()
	var pending atomic.Int32
	pending.Store(5)
	srv := fakeAPI(t, &pending)

	store := NewMemoryStore()
	_ = store.Set(ctx, keyAdminLastRead, "3")

	s, err := Open(ctx, SessionConfig{
		Identity: Identity{UserID: "a_1", Role: domain.RoleAdmin},
		Token:    "admin-token",
		Client:   client.New(srv.URL),
		Store:    store,
		Interval: 10 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	b, ok := s.Badge(BadgePendingProviders)
	if !ok {
		t.Fatalf("admin badge missing")
	}
	waitFor(t, b.HasUnread)

	if err := b.MarkSeen(ctx); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if v, _, _ := store.Get(ctx, keyAdminLastRead); v != "5" {
		t.Fatalf("expected stored 5, got %q", v)
	}

	pending.Store(6)
	waitFor(t, func() bool { return b.Unread() == 1 })
}

func TestSession_BadgesPerRole(t *testing.T) {
	var pending atomic.Int32
	srv := fakeAPI(t, &pending)

	cases := []struct {
		role  domain.Role
		badge string
	}{
		{domain.RoleAdmin, BadgePendingProviders},
		{domain.RoleProvider, BadgeContactRequests},
		{domain.RoleClient, BadgeConversations},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			s, err := Open(context.Background(), SessionConfig{
				Identity: Identity{UserID: "u_1", Role: tc.role},
				Token:    "admin-token",
				Client:   client.New(srv.URL),
				Interval: time.Hour,
				Logger:   zerolog.Nop(),
			})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer s.Close()

			if len(s.Badges()) != 1 || s.Badges()[0].Name() != tc.badge {
				t.Fatalf("unexpected badges: %v", s.Badges())
			}
			if tc.role != domain.RoleAdmin {
				waitFor(t, s.Badges()[0].HasUnread)
			}
		})
	}
}

func TestSession_RejectsUnknownRole(t *testing.T) {
	_, err := Open(context.Background(), SessionConfig{
		Identity: Identity{UserID: "u_1", Role: "GUEST"},
		Client:   client.New("http://127.0.0.1:0"),
	})
	if err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestSession_ThemePersistsThroughFileStore(t *testing.T) {
	ctx := context.Background()
	var pending atomic.Int32
	srv := fakeAPI(t, &pending)
	path := filepath.Join(t.TempDir(), "kind.yaml")

	open := func() *Session {
		store, err := OpenFileStore(path, "p_1")
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		s, err := Open(ctx, SessionConfig{
			Identity: Identity{UserID: "p_1", Role: domain.RoleProvider},
			Client:   client.New(srv.URL),
			Store:    store,
			Interval: time.Hour,
			Logger:   zerolog.Nop(),
		})
		if err != nil {
			t.Fatalf("open session: %v", err)
		}
		return s
	}

	s := open()
	if s.Theme() != DefaultTheme {
		t.Fatalf("expected default theme, got %q", s.Theme())
	}
	if err := s.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s = open()
	defer s.Close()
	if s.Theme() != "dark" {
		t.Fatalf("expected persisted theme, got %q", s.Theme())
	}
}

type closingStore struct {
	*MemoryStore
	closed int
}

func (c *closingStore) Close() error {
	c.closed++
	return nil
}

func TestSession_CloseReleasesStore(t *testing.T) {
	ctx := context.Background()
	var pending atomic.Int32
	srv := fakeAPI(t, &pending)

	store := &closingStore{MemoryStore: NewMemoryStore()}
	s, err := Open(ctx, SessionConfig{
		Identity: Identity{UserID: "c_1", Role: domain.RoleClient},
		Client:   client.New(srv.URL),
		Store:    store,
		Interval: time.Hour,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if store.closed != 1 {
		t.Fatalf("expected store closed once, got %d", store.closed)
	}
}
